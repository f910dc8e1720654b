package geom

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes v as [x, y, z].
func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Array())
}

func (v *Vec3) UnmarshalJSON(data []byte) error {
	var a [3]float32
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("vec3: %w", err)
	}
	*v = Vec3{a[0], a[1], a[2]}
	return nil
}

// MarshalJSON encodes v as [x, y, z, w].
func (v Vec4) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Array())
}

func (v *Vec4) UnmarshalJSON(data []byte) error {
	var a [4]float32
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("vec4: %w", err)
	}
	*v = Vec4{a[0], a[1], a[2], a[3]}
	return nil
}

// MarshalJSON encodes q as [x, y, z, w].
func (q Quat) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float32{q.X, q.Y, q.Z, q.W})
}

func (q *Quat) UnmarshalJSON(data []byte) error {
	var a [4]float32
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("quat: %w", err)
	}
	*q = Quat{a[0], a[1], a[2], a[3]}
	return nil
}
