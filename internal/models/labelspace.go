package models

import "fmt"

// LabelSpace is an ordered, versioned mapping from vulnerability label to
// probability-vector index. It is fixed at model-build time; every probability
// vector produced by the inference engine is indexed against exactly one
// LabelSpace version.
type LabelSpace struct {
	Version string   `json:"version"`
	Labels  []string `json:"labels"`

	index map[string]int
}

// DefaultLabels is the v1 vulnerability label space, in index order.
var DefaultLabels = []string{
	"reentrancy",
	"integer_overflow",
	"integer_underflow",
	"access_control",
	"tx_origin",
	"timestamp_dependency",
	"unchecked_calls",
	"unsafe_selfdestruct",
	"delegatecall",
	"front_running",
}

// NewLabelSpace builds a label space from an ordered label list.
func NewLabelSpace(version string, labels []string) *LabelSpace {
	ls := &LabelSpace{
		Version: version,
		Labels:  append([]string(nil), labels...),
		index:   make(map[string]int, len(labels)),
	}
	for i, l := range ls.Labels {
		ls.index[l] = i
	}
	return ls
}

// DefaultLabelSpace returns the built-in v1 label space.
func DefaultLabelSpace() *LabelSpace {
	return NewLabelSpace("v1", DefaultLabels)
}

// Len returns the number of labels.
func (ls *LabelSpace) Len() int {
	return len(ls.Labels)
}

// Index returns the probability-vector index for a label.
func (ls *LabelSpace) Index(label string) (int, error) {
	ls.ensureIndex()
	i, ok := ls.index[label]
	if !ok {
		return 0, fmt.Errorf("label %q not in label space %s", label, ls.Version)
	}
	return i, nil
}

// Contains reports whether the label exists in this label space.
func (ls *LabelSpace) Contains(label string) bool {
	ls.ensureIndex()
	_, ok := ls.index[label]
	return ok
}

// Label returns the label at index i.
func (ls *LabelSpace) Label(i int) string {
	return ls.Labels[i]
}

// ensureIndex rebuilds the lookup map after JSON decoding.
func (ls *LabelSpace) ensureIndex() {
	if ls.index != nil {
		return
	}
	ls.index = make(map[string]int, len(ls.Labels))
	for i, l := range ls.Labels {
		ls.index[l] = i
	}
}
