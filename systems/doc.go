// Package systems contains the built-in systems. Registration order matters:
// input-driven movement must be added before selection and rendering so that
// they observe this tick's camera transform.
package systems
