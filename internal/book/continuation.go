package book

import (
	"sort"
	"strconv"
	"strings"
)

// VolumeGroup is one logical book's worth of PDF file names within a single
// folder, ordered by ascending volume number.
type VolumeGroup struct {
	// Base is the shared stem of the group's file names, without extension
	// or continuation digits.
	Base string

	// Files holds the original file names in volume order: the bare base
	// file first if present, then numbered continuations ascending.
	Files []string
}

// candidate is one file name split into its continuation parts.
type candidate struct {
	name   string // original file name
	base   string // stem with trailing digits stripped
	num    int    // parsed continuation number
	hasNum bool
}

// GroupContinuationVolumes groups the PDF file names of one folder into one
// VolumeGroup per logical book.
//
// A file joins a group only when its stem is the group's base followed
// immediately by bare digits: "Book.pdf" + "Book1.pdf"/"Book2.pdf" (or
// "Book0.pdf"...) are one book, while "Book Vol 2.pdf" and
// "Book Collection.pdf" are not continuations of "Book.pdf" because the
// suffix is not purely digits. A group may also consist entirely of numbered
// files ("Book1.pdf".."Book3.pdf") with no bare base present; this
// permissive boundary matches real library naming and is kept deliberately.
// Files that match nothing form their own one-element group.
func GroupContinuationVolumes(names []string) []VolumeGroup {
	cands := make([]candidate, 0, len(names))
	bareBases := make(map[string]bool)    // stems without digit suffixes
	numberedBases := make(map[string]int) // digit-suffix stems by base
	for _, name := range names {
		c := splitContinuation(name)
		cands = append(cands, c)
		if c.hasNum {
			numberedBases[c.base]++
		} else {
			bareBases[c.base] = true
		}
	}

	groups := make(map[string]*VolumeGroup)
	order := make([]string, 0, len(names))
	add := func(key string, c candidate) {
		g, ok := groups[key]
		if !ok {
			g = &VolumeGroup{Base: key}
			groups[key] = g
			order = append(order, key)
		}
		g.Files = append(g.Files, c.name)
	}

	for _, c := range cands {
		switch {
		case !c.hasNum:
			add(c.base, c)
		case c.base != "" && (bareBases[c.base] || numberedBases[c.base] > 1):
			// Continuation of a bare base file, or one of several
			// numbered siblings sharing the same base.
			add(c.base, c)
		default:
			// A lone numbered file ("Op10.pdf") is its own book; its
			// full stem, digits included, is the base.
			add(strings.TrimSuffix(c.name, extOf(c.name)), c)
		}
	}

	out := make([]VolumeGroup, 0, len(order))
	for _, key := range order {
		g := groups[key]
		sortVolumeOrder(g.Files)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Base) < strings.ToLower(out[j].Base)
	})
	return out
}

// splitContinuation splits a file name into its base stem and trailing
// continuation number, if any.
func splitContinuation(name string) candidate {
	stem := strings.TrimSuffix(name, extOf(name))
	trimmed := strings.TrimRight(stem, "0123456789")
	if trimmed == stem {
		return candidate{name: name, base: stem}
	}
	num, err := strconv.Atoi(stem[len(trimmed):])
	if err != nil {
		return candidate{name: name, base: stem}
	}
	return candidate{name: name, base: trimmed, num: num, hasNum: true}
}

// sortVolumeOrder orders a group's file names: bare base first, then by
// embedded number ascending. Works for both zero-based (Book0, Book1...) and
// one-based (Book1, Book2...) numbering.
func sortVolumeOrder(files []string) {
	sort.Slice(files, func(i, j int) bool {
		ci, cj := splitContinuation(files[i]), splitContinuation(files[j])
		if ci.hasNum != cj.hasNum {
			return !ci.hasNum // the file lacking a digit is volume 0
		}
		if ci.num != cj.num {
			return ci.num < cj.num
		}
		return files[i] < files[j]
	})
}

// extOf returns the file extension, case preserved.
func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}
