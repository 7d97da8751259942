package noise

import (
	"math"
	"math/rand/v2"
	"slices"
	"sync"

	"koreanparse/jamo"
	"koreanparse/model"
)

// DefaultRatio is the share of siblings drawn into each noise set.
const DefaultRatio = 0.25

// Path addresses one element of a model.Structure. Only the first
// Level+1 entries of Index are meaningful.
type Path struct {
	Level Level  `json:"level"`
	Index [4]int `json:"index"`
}

// Indices returns the meaningful prefix of p.Index.
func (p Path) Indices() []int {
	return p.Index[:p.Level.depth()]
}

// Parent returns the path of the enclosing element. ok is false for word phrases.
func (p Path) Parent() (parent Path, ok bool) {
	if p.Level == WordPhrase {
		return Path{}, false
	}
	parent = Path{Level: p.Level - 1}
	copy(parent.Index[:], p.Index[:parent.Level.depth()])
	return parent, true
}

// Contains reports whether q lies inside (or is) the element at p.
func (p Path) Contains(q Path) bool {
	if q.Level < p.Level {
		return false
	}
	return slices.Equal(p.Indices(), q.Index[:p.Level.depth()])
}

// compare orders paths lexicographically by index.
func compare(a, b Path) int {
	return slices.Compare(a.Indices(), b.Indices())
}

// Report records what one Inject call selected and mutated.
type Report struct {
	Spec Spec `json:"spec"`
	// Selected holds every element that passed hierarchical gating, at every
	// level, whether or not the spec targets that level.
	Selected []Path `json:"selected,omitempty"`
	Replaced []Path `json:"replaced,omitempty"`
	Removed  []Path `json:"removed,omitempty"`
}

// ByLevel tallies paths per level name.
func ByLevel(paths []Path) map[string]int {
	out := make(map[string]int, len(Levels))
	for _, p := range paths {
		out[p.Level.String()]++
	}
	return out
}

// Option configures an Injector.
type Option func(*Injector)

// WithSeed seeds the injector's generator for reproducible noise.
func WithSeed(seed uint64) Option {
	return func(in *Injector) {
		in.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithSource sets the generator's source.
func WithSource(src rand.Source) Option {
	return func(in *Injector) {
		in.rng = rand.New(src)
	}
}

// WithRatio sets the share of siblings drawn into each noise set. Values
// outside [0, 1] are clamped. Default: 0.25.
func WithRatio(ratio float64) Option {
	return func(in *Injector) {
		in.ratio = min(max(ratio, 0), 1)
	}
}

// Injector applies structured noise to decomposed sentences. One injector
// owns one generator; calls are serialised so a single injector can be shared
// by concurrent data-loading workers.
type Injector struct {
	mu    sync.Mutex
	rng   *rand.Rand
	ratio float64
}

// NewInjector returns an Injector. Without WithSeed or WithSource the
// generator is seeded randomly.
func NewInjector(opts ...Option) *Injector {
	in := &Injector{ratio: DefaultRatio}
	for _, opt := range opts {
		opt(in)
	}
	if in.rng == nil {
		in.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return in
}

// Ratio returns the configured noise ratio.
func (in *Injector) Ratio() float64 {
	return in.ratio
}

// NoiseSet draws a random permutation of 0..n-1 and returns its first
// ceil(ratio*n) entries.
func (in *Injector) NoiseSet(n int) []int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.noiseSet(n)
}

func (in *Injector) noiseSet(n int) []int {
	if n <= 0 {
		return nil
	}
	k := min(int(math.Ceil(in.ratio*float64(n))), n)
	return in.rng.Perm(n)[:k]
}

// member turns a noise set into a lookup table of length n.
func member(set []int, n int) []bool {
	out := make([]bool, n)
	for _, i := range set {
		out[i] = true
	}
	return out
}

// Fork draws a seed from in and returns an independent injector with the
// same ratio, seeded from it. Forks taken in a fixed order replay the same
// noise regardless of how their users are scheduled.
func (in *Injector) Fork() *Injector {
	in.mu.Lock()
	seed := in.rng.Uint64()
	in.mu.Unlock()
	return &Injector{
		rng:   rand.New(rand.NewPCG(seed, seed^forkStream)),
		ratio: in.ratio,
	}
}

const forkStream = 0xda3e39cb94b95bdb

// RandomSpec draws a noise type with Pick.
func (in *Injector) RandomSpec() Spec {
	in.mu.Lock()
	defer in.mu.Unlock()
	return Pick(in.rng.Float64())
}

// Inject returns a noisy copy of s according to spec; s itself is never
// modified. Every sampling and length decision is taken against s, the
// untouched original, and removals are deferred until all four passes are
// done.
func (in *Injector) Inject(s model.Structure, spec Spec) (model.Structure, Report) {
	out := s.Clone()
	rep := Report{Spec: spec}
	if !spec.Enabled() {
		return out, rep
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	var removals [len(Levels)][]Path
	hit := func(p Path) {
		rep.Selected = append(rep.Selected, p)
		if !spec.Has(p.Level) {
			return
		}
		if spec.Mode == Removing {
			removals[p.Level] = append(removals[p.Level], p)
			rep.Removed = append(rep.Removed, p)
			return
		}
		if in.replace(out, s, p) {
			rep.Replaced = append(rep.Replaced, p)
		}
	}

	wpSet := member(in.noiseSet(len(s)), len(s))
	for i, wp := range s {
		wpSel := wpSet[i]
		if wpSel {
			hit(Path{Level: WordPhrase, Index: [4]int{i}})
		}
		mSet := member(in.noiseSet(len(wp)), len(wp))
		for j, m := range wp {
			mSel := wpSel && mSet[j]
			if mSel {
				hit(Path{Level: Morpheme, Index: [4]int{i, j}})
			}
			sSet := member(in.noiseSet(len(m)), len(m))
			for k, syl := range m {
				sSel := mSel && sSet[k]
				if sSel {
					hit(Path{Level: Syllable, Index: [4]int{i, j, k}})
				}
				pSet := member(in.noiseSet(len(syl)), len(syl))
				for l := range syl {
					if sSel && pSet[l] {
						hit(Path{Level: Phoneme, Index: [4]int{i, j, k, l}})
					}
				}
			}
		}
	}

	return applyRemovals(out, removals), rep
}

// replace mutates the element of out at p, reading lengths and contents from
// orig. It reports whether anything was resampled.
func (in *Injector) replace(out, orig model.Structure, p Path) bool {
	i, j, k := p.Index[0], p.Index[1], p.Index[2]
	switch p.Level {
	case WordPhrase:
		changed := false
		for j, m := range orig[i] {
			for k, syl := range m {
				if in.resampleInto(out[i][j], k, syl) {
					changed = true
				}
			}
		}
		return changed
	case Morpheme:
		changed := false
		for k, syl := range orig[i][j] {
			if in.resampleInto(out[i][j], k, syl) {
				changed = true
			}
		}
		return changed
	case Syllable:
		return in.resampleInto(out[i][j], k, orig[i][j][k])
	case Phoneme:
		return in.replaceSlot(out[i][j], k, p.Index[3], orig[i][j][k])
	}
	return false
}

// resampleInto replaces syllable k of m with a random syllable shaped like
// orig. Length 0 and lengths above 3 are left alone, as are single literals
// outside both vocabularies.
func (in *Injector) resampleInto(m model.Morpheme, k int, orig model.Syllable) bool {
	switch len(orig) {
	case 3:
		m[k] = model.Syllable{in.draw(jamo.Leading, 1), in.draw(jamo.Vowels, 1), in.draw(jamo.Trailing, 1)}
	case 2:
		m[k] = model.Syllable{in.draw(jamo.Leading, 1), in.draw(jamo.Vowels, 1)}
	case 1:
		switch {
		case jamo.IsKorean(orig[0]):
			m[k] = model.Syllable{in.draw(jamo.Trailing, 1)}
		case jamo.IsNonKorean(orig[0]):
			m[k] = model.Syllable{in.draw(jamo.NonKorean, 0)}
		default:
			return false
		}
	default:
		return false
	}
	return true
}

// replaceSlot resamples one phoneme position of syllable k of m. Position 0
// of a non-Korean token swaps the whole syllable for another token.
func (in *Injector) replaceSlot(m model.Morpheme, k, pos int, orig model.Syllable) bool {
	if pos >= len(m[k]) {
		return false
	}
	switch pos {
	case 0:
		switch {
		case jamo.IsKorean(orig[0]):
			m[k][0] = in.draw(jamo.Leading, 1)
		case jamo.IsNonKorean(orig[0]):
			m[k] = model.Syllable{in.draw(jamo.NonKorean, 0)}
		default:
			return false
		}
	case 1:
		m[k][1] = in.draw(jamo.Vowels, 1)
	case 2:
		m[k][2] = in.draw(jamo.Trailing, 1)
	default:
		return false
	}
	return true
}

// draw picks a uniform entry of table at index >= low.
func (in *Injector) draw(table []string, low int) string {
	return table[low+in.rng.IntN(len(table)-low)]
}

// applyRemovals deletes the recorded paths fine to coarse, each level in
// descending index order, so no deletion shifts an index still to be used.
func applyRemovals(out model.Structure, removals [len(Levels)][]Path) model.Structure {
	for lvl := Phoneme; lvl >= WordPhrase; lvl-- {
		paths := slices.Clone(removals[lvl])
		slices.SortFunc(paths, func(a, b Path) int { return compare(b, a) })
		for _, p := range paths {
			i, j, k, l := p.Index[0], p.Index[1], p.Index[2], p.Index[3]
			switch lvl {
			case Phoneme:
				out[i][j][k] = slices.Delete(out[i][j][k], l, l+1)
			case Syllable:
				out[i][j] = slices.Delete(out[i][j], k, k+1)
			case Morpheme:
				out[i] = slices.Delete(out[i], j, j+1)
			case WordPhrase:
				out = slices.Delete(out, i, i+1)
			}
		}
	}
	return out
}
