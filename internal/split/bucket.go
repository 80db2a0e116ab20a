package split

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/hupe1980/manifestsplit/internal/k8s"
	"github.com/hupe1980/manifestsplit/internal/routing"
)

// Bucket is the ordered list of documents destined for one output file.
type Bucket struct {
	Filename  string
	Documents []*k8s.Document
}

// Buckets groups documents by output filename. Buckets are kept in the
// order their first document arrived and are never empty.
type Buckets struct {
	m       *orderedmap.OrderedMap[string, *Bucket]
	skipped int
}

// NewBuckets returns an empty set of buckets.
func NewBuckets() *Buckets {
	return &Buckets{m: orderedmap.New[string, *Bucket]()}
}

// Classify assigns every non-null document to the bucket named by its
// kind's route. Null documents are counted and dropped.
func Classify(docs []*k8s.Document) *Buckets {
	b := NewBuckets()

	for _, d := range docs {
		if d == nil || d.IsNull() {
			b.skipped++
			continue
		}

		b.Add(routing.Filename(d.Kind()), d)
	}

	return b
}

// Add appends d to the bucket for filename, creating it if needed.
func (b *Buckets) Add(filename string, d *k8s.Document) {
	bucket, ok := b.m.Get(filename)
	if !ok {
		bucket = &Bucket{Filename: filename}
		b.m.Set(filename, bucket)
	}

	bucket.Documents = append(bucket.Documents, d)
}

// Len returns the number of buckets.
func (b *Buckets) Len() int {
	return b.m.Len()
}

// Each calls fn for every bucket in creation order.
func (b *Buckets) Each(fn func(*Bucket)) {
	for pair := b.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Value)
	}
}

// Filenames returns the bucket filenames in creation order.
func (b *Buckets) Filenames() []string {
	names := make([]string, 0, b.m.Len())
	b.Each(func(bk *Bucket) { names = append(names, bk.Filename) })

	return names
}

// Documents returns the number of classified documents.
func (b *Buckets) Documents() int {
	n := 0
	b.Each(func(bk *Bucket) { n += len(bk.Documents) })

	return n
}

// Skipped returns the number of null documents dropped by Classify.
func (b *Buckets) Skipped() int {
	return b.skipped
}
