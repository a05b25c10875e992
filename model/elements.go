package model

import (
	"regexp"
	"sort"
	"strings"
)

// Elements is an ordered list of elements. Every operation returns a new list
// sorted by Element.Index, so set algebra and reading-order queries can be
// freely combined.
type Elements []Element

// Sorted returns a copy of the list ordered by Index.
func (es Elements) Sorted() Elements {
	out := make(Elements, len(es))
	copy(out, es)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// First returns the first element in reading order.
func (es Elements) First() (Element, bool) {
	if len(es) == 0 {
		return Element{}, false
	}
	return es[0], true
}

// Last returns the last element in reading order.
func (es Elements) Last() (Element, bool) {
	if len(es) == 0 {
		return Element{}, false
	}
	return es[len(es)-1], true
}

// Texts returns the text of every element.
func (es Elements) Texts() []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Text
	}
	return out
}

// Contains reports whether an element with the same Index is in the list.
func (es Elements) Contains(e Element) bool {
	i := sort.Search(len(es), func(i int) bool { return es[i].Index >= e.Index })
	return i < len(es) && es[i].Index == e.Index
}

// Filter returns the elements for which keep returns true.
func (es Elements) Filter(keep func(Element) bool) Elements {
	out := make(Elements, 0, len(es))
	for _, e := range es {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByFont returns the elements whose font id equals one of fonts.
func (es Elements) FilterByFont(fonts ...string) Elements {
	set := make(map[string]bool, len(fonts))
	for _, f := range fonts {
		set[f] = true
	}
	return es.Filter(func(e Element) bool { return set[e.Font] })
}

// FilterByTextContains returns the elements whose text contains substr.
func (es Elements) FilterByTextContains(substr string) Elements {
	return es.Filter(func(e Element) bool { return strings.Contains(e.Text, substr) })
}

// FilterByRegex returns the elements whose text matches re.
func (es Elements) FilterByRegex(re *regexp.Regexp) Elements {
	return es.Filter(func(e Element) bool { return re.MatchString(e.Text) })
}

// FilterByPages returns the elements on pages first through last inclusive.
func (es Elements) FilterByPages(first, last int) Elements {
	return es.Filter(func(e Element) bool { return e.Page >= first && e.Page <= last })
}

// Remove returns the elements not present in any of others.
func (es Elements) Remove(others ...Elements) Elements {
	drop := make(map[int]bool)
	for _, o := range others {
		for _, e := range o {
			drop[e.Index] = true
		}
	}
	return es.Filter(func(e Element) bool { return !drop[e.Index] })
}

// Intersect returns the elements present in both lists.
func (es Elements) Intersect(other Elements) Elements {
	keep := make(map[int]bool, len(other))
	for _, e := range other {
		keep[e.Index] = true
	}
	return es.Filter(func(e Element) bool { return keep[e.Index] })
}

// Union returns the elements present in either list, without duplicates.
func (es Elements) Union(other Elements) Elements {
	seen := make(map[int]bool, len(es)+len(other))
	out := make(Elements, 0, len(es)+len(other))
	for _, list := range []Elements{es, other} {
		for _, e := range list {
			if !seen[e.Index] {
				seen[e.Index] = true
				out = append(out, e)
			}
		}
	}
	return out.Sorted()
}

// Add returns the list with e included.
func (es Elements) Add(e ...Element) Elements {
	return es.Union(Elements(e))
}

// Before returns the elements that precede e in reading order.
func (es Elements) Before(e Element, inclusive bool) Elements {
	return es.Filter(func(x Element) bool {
		return x.Index < e.Index || (inclusive && x.Index == e.Index)
	})
}

// After returns the elements that follow e in reading order.
func (es Elements) After(e Element, inclusive bool) Elements {
	return es.Filter(func(x Element) bool {
		return x.Index > e.Index || (inclusive && x.Index == e.Index)
	})
}

// Between returns the elements strictly between start and end in reading order.
func (es Elements) Between(start, end Element) Elements {
	return es.Filter(func(x Element) bool {
		return x.Index > start.Index && x.Index < end.Index
	})
}

// HorizontallyInLineWith returns the other elements on the same page whose
// vertical extent overlaps e, i.e. elements sharing a row with e.
func (es Elements) HorizontallyInLineWith(e Element) Elements {
	return es.Filter(func(x Element) bool {
		return x.Index != e.Index && x.Page == e.Page && x.BBox.OverlapsY(e.BBox)
	})
}

// VerticallyInLineWith returns the other elements whose horizontal extent
// overlaps e, i.e. elements sharing a column with e. With allPages unset only
// elements on e's page are considered.
func (es Elements) VerticallyInLineWith(e Element, allPages bool) Elements {
	return es.Filter(func(x Element) bool {
		if x.Index == e.Index || (!allPages && x.Page != e.Page) {
			return false
		}
		return x.BBox.OverlapsX(e.BBox)
	})
}
