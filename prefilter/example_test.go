package prefilter_test

import (
	"fmt"

	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/literal"
	"github.com/coregx/onig/prefilter"
	"github.com/coregx/onig/syntax"
)

// ExampleBuilder builds a prefilter from the prefixes of a pattern.
func ExampleBuilder() {
	tree, _ := syntax.Parse([]byte("hello|world"), 0, syntax.Ruby(), encoding.UTF8, syntax.ParseConfig{})
	prefixes := literal.New(literal.DefaultConfig(), encoding.UTF8).Prefixes(tree.Root)

	pf := prefilter.NewBuilder(prefixes).Build()
	fmt.Println(pf.Find([]byte("foo world bar hello"), 0))
	// Output:
	// 4
}

// ExampleNewByteSet scans for any of a set of bytes.
func ExampleNewByteSet() {
	set := prefilter.NewByteSet([]byte("xyz"))
	fmt.Println(set.Find([]byte("abcyx"), 0))
	// Output:
	// 3
}
