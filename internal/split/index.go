package split

import (
	"sort"

	"github.com/hupe1980/manifestsplit/internal/routing"
)

// IndexResources returns the sorted filenames kustomization.yaml should
// reference: populated buckets that are on the index allow-list.
func IndexResources(b *Buckets) []string {
	var res []string

	b.Each(func(bk *Bucket) {
		if len(bk.Documents) > 0 && routing.IndexAllowed(bk.Filename) {
			res = append(res, bk.Filename)
		}
	})

	sort.Strings(res)

	return res
}
