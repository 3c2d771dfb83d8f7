package annotation

type Format int

const (
	UNDEF Format = iota - 1
	BED
	GFF
)

// String return the string representation of a Format
func (f Format) String() string {
	switch f {
	case BED:
		return "BED"
	case GFF:
		return "GFF"
	default:
		return "UNKNOWN"
	}
}
