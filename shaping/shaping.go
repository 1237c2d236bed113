// Package shaping prepares right-to-left label text for renderers that lay
// glyphs out strictly left to right.
//
// Arabic letters are replaced by their contextual presentation forms and the
// line is reordered into visual order, so the rasterizer only has to draw
// runes one after another.
package shaping

import (
	"slices"
	"sort"

	"github.com/korjavin/asthmabot/models"
	"golang.org/x/text/unicode/bidi"
)

type joining int

const (
	joinNone  joining = iota // hamza: never connects
	joinRight                // alef, dal, reh, waw...: connects to the previous letter only
	joinDual                 // connects on both sides
)

type forms struct {
	join                             joining
	isolated, final, initial, medial rune
}

const (
	lam     = 'ل'
	tatweel = 'ـ'
)

// Presentation Forms-B for the Arabic block, plus Farsi yeh.
var letters = map[rune]forms{
	'ء': {joinNone, 0xFE80, 0xFE80, 0, 0},
	'آ': {joinRight, 0xFE81, 0xFE82, 0, 0},
	'أ': {joinRight, 0xFE83, 0xFE84, 0, 0},
	'ؤ': {joinRight, 0xFE85, 0xFE86, 0, 0},
	'إ': {joinRight, 0xFE87, 0xFE88, 0, 0},
	'ئ': {joinDual, 0xFE89, 0xFE8A, 0xFE8B, 0xFE8C},
	'ا': {joinRight, 0xFE8D, 0xFE8E, 0, 0},
	'ب': {joinDual, 0xFE8F, 0xFE90, 0xFE91, 0xFE92},
	'ة': {joinRight, 0xFE93, 0xFE94, 0, 0},
	'ت': {joinDual, 0xFE95, 0xFE96, 0xFE97, 0xFE98},
	'ث': {joinDual, 0xFE99, 0xFE9A, 0xFE9B, 0xFE9C},
	'ج': {joinDual, 0xFE9D, 0xFE9E, 0xFE9F, 0xFEA0},
	'ح': {joinDual, 0xFEA1, 0xFEA2, 0xFEA3, 0xFEA4},
	'خ': {joinDual, 0xFEA5, 0xFEA6, 0xFEA7, 0xFEA8},
	'د': {joinRight, 0xFEA9, 0xFEAA, 0, 0},
	'ذ': {joinRight, 0xFEAB, 0xFEAC, 0, 0},
	'ر': {joinRight, 0xFEAD, 0xFEAE, 0, 0},
	'ز': {joinRight, 0xFEAF, 0xFEB0, 0, 0},
	'س': {joinDual, 0xFEB1, 0xFEB2, 0xFEB3, 0xFEB4},
	'ش': {joinDual, 0xFEB5, 0xFEB6, 0xFEB7, 0xFEB8},
	'ص': {joinDual, 0xFEB9, 0xFEBA, 0xFEBB, 0xFEBC},
	'ض': {joinDual, 0xFEBD, 0xFEBE, 0xFEBF, 0xFEC0},
	'ط': {joinDual, 0xFEC1, 0xFEC2, 0xFEC3, 0xFEC4},
	'ظ': {joinDual, 0xFEC5, 0xFEC6, 0xFEC7, 0xFEC8},
	'ع': {joinDual, 0xFEC9, 0xFECA, 0xFECB, 0xFECC},
	'غ': {joinDual, 0xFECD, 0xFECE, 0xFECF, 0xFED0},
	'ـ': {joinDual, 0x0640, 0x0640, 0x0640, 0x0640},
	'ف': {joinDual, 0xFED1, 0xFED2, 0xFED3, 0xFED4},
	'ق': {joinDual, 0xFED5, 0xFED6, 0xFED7, 0xFED8},
	'ك': {joinDual, 0xFED9, 0xFEDA, 0xFEDB, 0xFEDC},
	'ل': {joinDual, 0xFEDD, 0xFEDE, 0xFEDF, 0xFEE0},
	'م': {joinDual, 0xFEE1, 0xFEE2, 0xFEE3, 0xFEE4},
	'ن': {joinDual, 0xFEE5, 0xFEE6, 0xFEE7, 0xFEE8},
	'ه': {joinDual, 0xFEE9, 0xFEEA, 0xFEEB, 0xFEEC},
	'و': {joinRight, 0xFEED, 0xFEEE, 0, 0},
	'ى': {joinRight, 0xFEEF, 0xFEF0, 0, 0},
	'ي': {joinDual, 0xFEF1, 0xFEF2, 0xFEF3, 0xFEF4},
	'ی': {joinDual, 0xFBFC, 0xFBFD, 0xFBFE, 0xFBFF},
}

// lam followed by an alef variant: isolated and final ligature.
var lamAlef = map[rune][2]rune{
	'آ': {0xFEF5, 0xFEF6},
	'أ': {0xFEF7, 0xFEF8},
	'إ': {0xFEF9, 0xFEFA},
	'ا': {0xFEFB, 0xFEFC},
}

// transparent marks (harakat, superscript alef) do not break joining.
func transparent(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670
}

// neighbour returns the index of the closest non-transparent rune from i
// stepping by step, or -1.
func neighbour(in []rune, i, step int) int {
	for j := i + step; j >= 0 && j < len(in); j += step {
		if !transparent(in[j]) {
			return j
		}
	}
	return -1
}

func joinsForward(in []rune, i int) bool {
	if i < 0 {
		return false
	}
	f, ok := letters[in[i]]
	return ok && f.join == joinDual
}

func joinsBackward(in []rune, i int) bool {
	if i < 0 {
		return false
	}
	f, ok := letters[in[i]]
	return ok && f.join != joinNone
}

// Shape replaces Arabic letters with their contextual forms, in logical order.
func Shape(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in))
	for i := 0; i < len(in); i++ {
		r := in[i]
		f, ok := letters[r]
		if !ok {
			out = append(out, r)
			continue
		}

		connectPrev := f.join != joinNone && joinsForward(in, neighbour(in, i, -1))

		if r == lam {
			if j := neighbour(in, i, 1); j >= 0 {
				if lig, ok := lamAlef[in[j]]; ok {
					if connectPrev {
						out = append(out, lig[1])
					} else {
						out = append(out, lig[0])
					}
					out = append(out, in[i+1:j]...)
					i = j
					continue
				}
			}
		}

		connectNext := f.join == joinDual && joinsBackward(in, neighbour(in, i, 1))

		switch {
		case connectPrev && connectNext:
			out = append(out, f.medial)
		case connectPrev:
			out = append(out, f.final)
		case connectNext:
			out = append(out, f.initial)
		default:
			out = append(out, f.isolated)
		}
	}
	return string(out)
}

// The paragraph is right to left with no explicit embeddings, so every
// character resolves to level 1 (R) or 2 (L, EN, AN), and sos and eos are R.
const embedding = bidi.R

// maxBracketDepth bounds the opener stack as the bidi algorithm does.
const maxBracketDepth = 63

func classes(in []rune) []bidi.Class {
	t := make([]bidi.Class, len(in))
	for i, r := range in {
		p, _ := bidi.LookupRune(r)
		t[i] = p.Class()
	}
	return t
}

// strong folds a resolved class to L or R, numbers counting as R; anything
// else is reported as ON.
func strong(c bidi.Class) bidi.Class {
	switch c {
	case bidi.L:
		return bidi.L
	case bidi.R, bidi.AL, bidi.EN, bidi.AN:
		return bidi.R
	}
	return bidi.ON
}

// mirror returns the paired bracket of r, or r.
func mirror(r rune) rune {
	return []rune(bidi.ReverseString(string(r)))[0]
}

// resolveWeak applies W1 to W7.
func resolveWeak(t []bidi.Class) {
	prev := embedding
	for i, c := range t {
		if c == bidi.NSM {
			t[i] = prev
		}
		prev = t[i]
	}

	last := embedding
	for i, c := range t {
		switch c {
		case bidi.L, bidi.R, bidi.AL:
			last = c
		case bidi.EN:
			if last == bidi.AL {
				t[i] = bidi.AN
			}
		}
	}
	for i, c := range t {
		if c == bidi.AL {
			t[i] = bidi.R
		}
	}

	for i := 1; i+1 < len(t); i++ {
		before, after := t[i-1], t[i+1]
		switch {
		case t[i] == bidi.ES && before == bidi.EN && after == bidi.EN,
			t[i] == bidi.CS && before == bidi.EN && after == bidi.EN:
			t[i] = bidi.EN
		case t[i] == bidi.CS && before == bidi.AN && after == bidi.AN:
			t[i] = bidi.AN
		}
	}

	for i := 0; i < len(t); {
		if t[i] != bidi.ET {
			i++
			continue
		}
		j := i
		for j < len(t) && t[j] == bidi.ET {
			j++
		}
		if (i > 0 && t[i-1] == bidi.EN) || (j < len(t) && t[j] == bidi.EN) {
			for k := i; k < j; k++ {
				t[k] = bidi.EN
			}
		}
		i = j
	}

	for i, c := range t {
		if c == bidi.ES || c == bidi.ET || c == bidi.CS {
			t[i] = bidi.ON
		}
	}

	last = embedding
	for i, c := range t {
		switch c {
		case bidi.L, bidi.R:
			last = c
		case bidi.EN:
			if last == bidi.L {
				t[i] = bidi.L
			}
		}
	}
}

// resolveBrackets applies N0: a bracket pair takes the direction of the
// strong text it encloses, or of its preceding context when the enclosed
// text only runs against the paragraph.
func resolveBrackets(in []rune, t []bidi.Class) {
	type pair struct{ open, close int }
	var pairs []pair
	var openers []int

	for i, r := range in {
		if t[i] != bidi.ON {
			continue
		}
		p, _ := bidi.LookupRune(r)
		if !p.IsBracket() {
			continue
		}
		if p.IsOpeningBracket() {
			if len(openers) == maxBracketDepth {
				break
			}
			openers = append(openers, i)
			continue
		}
		want := mirror(r)
		for k := len(openers) - 1; k >= 0; k-- {
			if in[openers[k]] == want {
				pairs = append(pairs, pair{openers[k], i})
				openers = openers[:k]
				break
			}
		}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].open < pairs[b].open })

	for _, p := range pairs {
		inside := bidi.ON
		for k := p.open + 1; k < p.close && inside != embedding; k++ {
			if s := strong(t[k]); s != bidi.ON {
				inside = s
			}
		}
		if inside == bidi.ON {
			continue
		}
		dir := embedding
		if inside != embedding {
			context := embedding
			for k := p.open - 1; k >= 0; k-- {
				if s := strong(t[k]); s != bidi.ON {
					context = s
					break
				}
			}
			if context == inside {
				dir = inside
			}
		}
		t[p.open], t[p.close] = dir, dir
	}
}

// resolveNeutral applies N1 and N2.
func resolveNeutral(t []bidi.Class) {
	for i := 0; i < len(t); {
		if strong(t[i]) != bidi.ON {
			i++
			continue
		}
		j := i
		for j < len(t) && strong(t[j]) == bidi.ON {
			j++
		}
		before, after := embedding, embedding
		if i > 0 {
			before = strong(t[i-1])
		}
		if j < len(t) {
			after = strong(t[j])
		}
		dir := embedding
		if before == after {
			dir = before
		}
		for k := i; k < j; k++ {
			t[k] = dir
		}
		i = j
	}
}

// reorder converts a right-to-left line from logical to visual order.
func reorder(in []rune) []rune {
	orig := classes(in)
	t := append([]bidi.Class(nil), orig...)
	resolveWeak(t)
	resolveBrackets(in, t)
	resolveNeutral(t)

	levels := make([]int, len(in))
	for i, c := range t {
		levels[i] = 1
		if c != bidi.R {
			levels[i] = 2
		}
	}
	// trailing whitespace returns to the paragraph level
	for i := len(orig) - 1; i >= 0; i-- {
		if c := orig[i]; c != bidi.WS && c != bidi.S && c != bidi.B && c != bidi.BN {
			break
		}
		levels[i] = 1
	}

	idx := make([]int, len(in))
	for i := range idx {
		idx[i] = i
	}
	for level := 2; level >= 1; level-- {
		for i := 0; i < len(idx); {
			if levels[idx[i]] < level {
				i++
				continue
			}
			j := i
			for j < len(idx) && levels[idx[j]] >= level {
				j++
			}
			slices.Reverse(idx[i:j])
			i = j
		}
	}

	// reversed marks precede their letter; move the letter back in front
	for i := 0; i < len(idx); i++ {
		if orig[idx[i]] != bidi.NSM || levels[idx[i]] != 1 {
			continue
		}
		j := i
		for j < len(idx) && orig[idx[j]] == bidi.NSM && levels[idx[j]] == 1 {
			j++
		}
		if j < len(idx) {
			base := idx[j]
			copy(idx[i+1:j+1], idx[i:j])
			idx[i] = base
		}
		i = j
	}

	out := make([]rune, len(idx))
	for i, k := range idx {
		out[i] = in[k]
		if levels[k] == 1 {
			out[i] = mirror(in[k])
		}
	}
	return out
}

// Visual returns s ready for a left-to-right renderer. Right-to-left text is
// shaped first, then reordered; left-to-right text is returned unchanged.
func Visual(s string, dir models.Direction) string {
	if dir != models.RTL || s == "" {
		return s
	}
	return string(reorder([]rune(Shape(s))))
}
