package doc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PageRange is an ordered set of unique 1-based display page numbers.
// A nil *PageRange means "no filter": the caller treats it as all pages.
type PageRange struct {
	pages []int
	seen  map[int]bool
}

// ParseRange parses a page specification such as "1,3,5-8" into a
// PageRange. An empty spec returns nil, meaning no filter. Tokens are
// separated by commas; each is a single page number or an inclusive
// "start-end" range. A range with start > end contributes nothing.
// Malformed tokens are skipped; an open-ended range ("5-" or "-5") is a
// parse error.
func ParseRange(spec string) (*PageRange, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	r := &PageRange{seen: make(map[int]bool)}
	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if i := strings.IndexByte(token, '-'); i >= 0 {
			lo := strings.TrimSpace(token[:i])
			hi := strings.TrimSpace(token[i+1:])
			if lo == "" || hi == "" {
				return nil, fmt.Errorf("open-ended page range %q", token)
			}
			start, err1 := strconv.Atoi(lo)
			end, err2 := strconv.Atoi(hi)
			if err1 != nil || err2 != nil || start < 1 || end < 1 {
				continue
			}
			for n := start; n <= end; n++ {
				r.add(n)
			}
		} else {
			n, err := strconv.Atoi(token)
			if err != nil || n < 1 {
				continue
			}
			r.add(n)
		}
	}
	return r, nil
}

func (r *PageRange) add(n int) {
	if !r.seen[n] {
		r.seen[n] = true
		r.pages = append(r.pages, n)
	}
}

// Len returns the number of pages in the set. A nil range has length 0.
func (r *PageRange) Len() int {
	if r == nil {
		return 0
	}
	return len(r.pages)
}

// Contains reports whether the 1-based page number is in the set. A nil
// range contains every page.
func (r *PageRange) Contains(n int) bool {
	if r == nil {
		return n >= 1
	}
	return r.seen[n]
}

// Pages returns the page numbers in ascending order.
func (r *PageRange) Pages() []int {
	if r == nil || len(r.pages) == 0 {
		return nil
	}
	out := make([]int, len(r.pages))
	copy(out, r.pages)
	sort.Ints(out)
	return out
}

// String returns the canonical form of the set, with consecutive pages
// collapsed into ranges. Parsing the result reproduces an equal set.
func (r *PageRange) String() string {
	pages := r.Pages()
	if len(pages) == 0 {
		return ""
	}

	var b strings.Builder
	for i := 0; i < len(pages); {
		j := i
		for j+1 < len(pages) && pages[j+1] == pages[j]+1 {
			j++
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		if j > i {
			fmt.Fprintf(&b, "%d-%d", pages[i], pages[j])
		} else {
			fmt.Fprintf(&b, "%d", pages[i])
		}
		i = j + 1
	}
	return b.String()
}
