package sam

import (
	"github.com/biogo/hts/sam"
)

type Record struct {
	*sam.Record
}

func NewRecord(r *sam.Record) *Record {
	return &Record{r}
}

func (r *Record) IsUniq() bool {
	NH, hasNH := r.Tag([]byte("NH"))
	if !hasNH {
		return false
	}
	NHval, ok := NH.Value().(uint8)
	return ok && NHval == 1
}

func (r *Record) IsSplit() bool {
	for _, op := range r.Cigar {
		if op.Type() == sam.CigarSkipped {
			return true
		}
	}
	return false
}

func (r *Record) IsPrimary() bool {
	return r.Flags&(sam.Secondary|sam.Supplementary) == 0
}

func (r *Record) IsUnmapped() bool {
	return r.Flags&sam.Unmapped == sam.Unmapped || r.Ref == nil
}

func (r *Record) IsPaired() bool {
	return r.Flags&sam.Paired == sam.Paired
}

func (r *Record) IsProperlyPaired() bool {
	return r.Flags&sam.ProperPair == sam.ProperPair
}

func (r *Record) IsRead1() bool {
	return r.Flags&sam.Read1 == sam.Read1
}

func (r *Record) HasMateUnmapped() bool {
	return r.Flags&sam.MateUnmapped == sam.MateUnmapped
}

func (r *Record) IsFirstOfValidPair() bool {
	return r.IsPaired() && r.IsRead1() && r.IsProperlyPaired() && !r.HasMateUnmapped()
}

func (r *Record) IsDuplicate() bool {
	return r.Flags&sam.Duplicate == sam.Duplicate
}

func (r *Record) IsQCFail() bool {
	return r.Flags&sam.QCFail == sam.QCFail
}

// AlignedBases returns the number of bases aligned on the reference, i.e. the
// length of the cigar operations consuming both the query and the reference.
func (r *Record) AlignedBases() (n int) {
	for _, co := range r.Cigar {
		con := co.Type().Consumes()
		if con.Query != 0 && con.Reference != 0 {
			n += co.Len()
		}
	}
	return
}
