package forest

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// treeParams bound the growth of a single regression tree. Zero maxDepth
// means unlimited.
type treeParams struct {
	maxDepth    int
	minSplit    int
	minLeaf     int
	maxFeatures int
}

type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
	leaf      bool
}

// Tree is a CART regression tree stored as a flat node slice; node 0 is the root.
type Tree struct {
	nodes []node
}

type treeBuilder struct {
	X      [][]float64
	y      []float64
	params treeParams
	rng    *rand.Rand
	nodes  []node
}

// fitTree grows a tree on the rows listed in samples. Rows may repeat.
func fitTree(X [][]float64, y []float64, samples []int, p treeParams, rng *rand.Rand) *Tree {
	b := &treeBuilder{X: X, y: y, params: p, rng: rng}
	b.grow(samples, 0)
	return &Tree{nodes: b.nodes}
}

func (b *treeBuilder) grow(samples []int, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, node{leaf: true, value: b.mean(samples)})

	if len(samples) < b.params.minSplit || len(samples) < 2*b.params.minLeaf {
		return id
	}
	if b.params.maxDepth > 0 && depth >= b.params.maxDepth {
		return id
	}
	if b.constantTarget(samples) {
		return id
	}

	feature, threshold, ok := b.bestSplit(samples)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range samples {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[id] = node{feature: feature, threshold: threshold, left: l, right: r}
	return id
}

// bestSplit scans candidate features for the threshold with the largest
// reduction in squared error.
func (b *treeBuilder) bestSplit(samples []int) (int, float64, bool) {
	n := len(samples)
	nFeatures := len(b.X[samples[0]])
	candidates := b.rng.Perm(nFeatures)
	if b.params.maxFeatures > 0 && b.params.maxFeatures < nFeatures {
		candidates = candidates[:b.params.maxFeatures]
	}

	var total float64
	for _, i := range samples {
		total += b.y[i]
	}
	parent := total * total / float64(n)

	bestGain := 1e-12
	bestFeature, bestThreshold := -1, 0.0

	vals := make([]float64, n)
	order := make([]int, n)
	for _, f := range candidates {
		for k, i := range samples {
			vals[k] = b.X[i][f]
			order[k] = k
		}
		floats.ArgsortStable(vals, order)

		var leftSum float64
		for k := 1; k < n; k++ {
			leftSum += b.y[samples[order[k-1]]]
			if k < b.params.minLeaf || n-k < b.params.minLeaf {
				continue
			}
			if vals[k] == vals[k-1] {
				continue
			}
			rightSum := total - leftSum
			score := leftSum*leftSum/float64(k) + rightSum*rightSum/float64(n-k)
			if gain := score - parent; gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (vals[k-1] + vals[k]) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *treeBuilder) mean(samples []int) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, i := range samples {
		sum += b.y[i]
	}
	return sum / float64(len(samples))
}

func (b *treeBuilder) constantTarget(samples []int) bool {
	first := b.y[samples[0]]
	for _, i := range samples[1:] {
		if b.y[i] != first {
			return false
		}
	}
	return true
}

// Predict walks the tree for one feature row.
func (t *Tree) Predict(row []float64) float64 {
	n := t.nodes[0]
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = t.nodes[n.left]
		} else {
			n = t.nodes[n.right]
		}
	}
	return n.value
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(id int) int
	walk = func(id int) int {
		n := t.nodes[id]
		if n.leaf {
			return 0
		}
		return 1 + max(walk(n.left), walk(n.right))
	}
	return walk(0)
}
