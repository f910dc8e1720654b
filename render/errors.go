package render

import "errors"

var (
	ErrShaderCompile          = errors.New("shader compile failure")
	ErrUnsupportedUniformType = errors.New("unsupported uniform type")
	ErrUnknownMaterial        = errors.New("unknown material kind")
	ErrUnknownProperty        = errors.New("unknown material property")
	ErrPropertyType           = errors.New("material property type mismatch")
)
