package annotation

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhconnelly/rtreego"
)

const gff = `##gff-version 3
##sequence-region contig_1 1 1000
##sequence-region contig_2 1 500
contig_1	Prodigal:2.6	CDS	1	300	.	+	0	ID=c1_1
contig_1	Prodigal:2.6	gene	1	300	.	+	.	ID=c1_g1
contig_1	Prodigal:2.6	CDS	201	450	.	-	0	ID=c1_2
contig_1	Prodigal:2.6	CDS	801	1200	.	+	0	ID=c1_3
contig_2	Prodigal:2.6	CDS	101	200	.	+	0	ID=c2_1
contig_3	Prodigal:2.6	tRNA	1	80	.	+	.	ID=c3_1
##FASTA
>contig_1
ACGT
`

const bed = `track name=cds
contig_1	0	300	c1_1	0	+
contig_1	200	450	c1_2	0	-
contig_2	100	200
`

const bed9 = `contig_1	0	300	c1_1	0	+	0	300	255,0,0
contig_2	100	200	c2_1	0	-	100	200	0,0,255
`

func TestCreateIndex(t *testing.T) {
	for i, input := range []string{gff, bed} {
		index := createIndex(NewScanner(bytes.NewReader([]byte(input))))
		if index.Len() < 2 {
			t.Fatalf("(createIndex) [%d] expected at least 2 contigs, got %v", i, index.Len())
		}
		for key, value := range index {
			typeString := fmt.Sprintf("%T", value)
			if typeString != "*rtreego.Rtree" {
				t.Errorf("(createIndex) [%d] expected *rtreego.Rtree, got %v", i, typeString)
			}
			if key == "contig_3" {
				t.Errorf("(createIndex) [%d] non coding features must be skipped", i)
			}
		}
		if index.Get("contig_2").Size() != 1 {
			t.Errorf("(createIndex) [%d] expected one feature for contig_2, got %v", i, index.Get("contig_2").Size())
		}
	}
}

func TestScannerFormat(t *testing.T) {
	for i, c := range []struct {
		input    string
		expected Format
		features int
	}{
		{gff, GFF, 4},
		{bed, BED, 3},
		{"contig_1\t0\t10", BED, 1},
		{bed9, BED, 2},
		{"contig_1\tProdigal:2.6\tCDS\t1\t300\t.\t+\t0\tID=c1_1\n", GFF, 1},
		{"##gff-version 3\ncontig_1\tProdigal:2.6\tCDS\t1\t300\t.\t+\t0\tID=c1_1\n", GFF, 1},
	} {
		s := NewScanner(bytes.NewReader([]byte(c.input)))
		n := 0
		for s.Next() {
			n++
		}
		if s.Error() != nil {
			t.Errorf("(Scanner) [%d] unexpected error %v", i, s.Error())
		}
		if s.Format() != c.expected {
			t.Errorf("(Scanner) [%d] expected format %v, got %v", i, c.expected, s.Format())
		}
		if n != c.features {
			t.Errorf("(Scanner) [%d] expected %d features, got %d", i, c.features, n)
		}
	}
}

func TestScannerError(t *testing.T) {
	s := NewScanner(bytes.NewReader([]byte("contig_1\tx\t10\n")))
	for s.Next() {
	}
	if s.Error() == nil {
		t.Error("(Scanner) expected a parse error")
	}
}

func TestCodingDensity(t *testing.T) {
	index := createIndex(NewScanner(bytes.NewReader([]byte(gff))))
	for i, c := range []struct {
		chr      string
		length   int
		expected float64
	}{
		{"contig_1", 1000, 0.65},
		{"contig_1", 400, 1},
		{"contig_2", 500, 0.2},
		{"contig_3", 500, 0},
		{"contig_2", 0, 0},
	} {
		d := CodingDensity(index, c.chr, c.length)
		if math.Abs(d-c.expected) > 1e-9 {
			t.Errorf("(CodingDensity) [%d] %s: expected %v, got %v", i, c.chr, c.expected, d)
		}
	}
	index = createIndex(NewScanner(bytes.NewReader([]byte(bed9))))
	if d := CodingDensity(index, "contig_1", 600); d != 0.5 {
		t.Errorf("(CodingDensity) BED9: expected 0.5, got %v", d)
	}
}

func TestCreateIndexFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cds.gff.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := gzip.NewWriter(f)
	w.Write([]byte(gff))
	w.Close()
	f.Close()
	index, err := CreateIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	if d := CodingDensity(index, "contig_2", 500); math.Abs(d-0.2) > 1e-9 {
		t.Errorf("(CreateIndex) expected density 0.2, got %v", d)
	}
	if _, err := CreateIndex(filepath.Join(t.TempDir(), "missing.gff")); err == nil {
		t.Error("(CreateIndex) expected an error for a missing file")
	}
}

func newRect(point rtreego.Point, size []float64, t *testing.T) *rtreego.Rect {
	rect, err := rtreego.NewRect(point, size)
	if err != nil {
		t.Fatal(err)
	}
	return rect
}

func TestMergeIntervals(t *testing.T) {
	chr := []byte("contig_1")
	element := []byte("CDS")
	var elements []rtreego.Spatial
	for _, i := range [][2]float64{
		{11869, 358},
		{12010, 47},
		{12179, 48},
		{12613, 84},
		{12613, 108},
		{12975, 77},
		{13221, 153},
		{13221, 1188},
		{13453, 217},
	} {
		elements = append(elements, NewFeature(chr, element, newRect(rtreego.Point{i[0]}, []float64{i[1]}, t)))
	}
	expected := [][2]float64{
		{11869, 12227},
		{12613, 12721},
		{12975, 13052},
		{13221, 14000},
	}
	results := mergeIntervals(elements, 0, 14000)
	if len(results) != len(expected) {
		t.Fatalf("(mergeIntervals) Lengths of merged results differ from expected results.\ngot: %v \nexp: %v)", results, expected)
	}
	for i, e := range expected {
		if e != results[i] {
			t.Errorf("(mergeIntervals) merged results error.\ngot: %v \nexp: %v", results[i], e)
		}
	}
	if f := elements[7].(*Feature); f.End() != 14409 {
		t.Errorf("(mergeIntervals) input features must not be modified, got %v", f)
	}
}

func TestFeature(t *testing.T) {
	s := NewScanner(bytes.NewReader([]byte(bed + gff)))
	var feats []*Feature
	for s.Next() {
		feats = append(feats, s.Feat())
	}
	if len(feats) < 2 {
		t.Fatalf("(Feature) expected at least 2 features, got %d", len(feats))
	}
	for i, expected := range []string{"contig_1:0-300:c1_1", "contig_1:200-450:c1_2"} {
		if feats[i].String() != expected {
			t.Errorf("(Feature) [%d] expected %s, got %s", i, expected, feats[i].String())
		}
	}
}
