package frame

import "fmt"

type DType int

const (
	Float64 DType = iota
	Int64
	String
	Bool
)

func (d DType) String() string {
	switch d {
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	case String:
		return "string"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// ParseDType is the inverse of DType.String, used to rebuild schemas from
// stored metadata
func ParseDType(s string) (DType, error) {
	switch s {
	case "float64":
		return Float64, nil
	case "int64":
		return Int64, nil
	case "string":
		return String, nil
	case "bool":
		return Bool, nil
	default:
		return Float64, fmt.Errorf("unknown dtype %q", s)
	}
}
