package onig_test

import (
	"fmt"

	"github.com/coregx/onig"
	"github.com/coregx/onig/syntax"
)

func ExampleCompile() {
	re, err := onig.Compile(`(?<year>\d{4})-(?<month>\d\d)`)
	if err != nil {
		panic(err)
	}
	fmt.Println(re.FindString("released 2024-05"))
	fmt.Println(re.NameToGroupNumbers("month"))
	// Output:
	// 2024-05
	// [2]
}

func ExampleRegex_Search() {
	re := onig.MustCompile(`a`)
	buf := []byte("aaa")

	pos, _ := re.Search(buf, 0, len(buf), 0, len(buf)+1, nil, onig.OptionNone)
	fmt.Println("forward:", pos)

	pos, _ = re.Search(buf, 0, len(buf), len(buf), 0, nil, onig.OptionNone)
	fmt.Println("backward:", pos)
	// Output:
	// forward: 0
	// backward: 2
}

func ExampleRegex_Search_findLongest() {
	re := onig.MustCompile(`a|ab`)
	buf := []byte("ab")
	region := onig.NewRegion(0)

	_, _ = re.Search(buf, 0, len(buf), 0, len(buf)+1, region, onig.OptionNone)
	fmt.Println(region.Beg(0), region.End(0))

	_, _ = re.Search(buf, 0, len(buf), 0, len(buf)+1, region, onig.OptionFindLongest)
	fmt.Println(region.Beg(0), region.End(0))
	// Output:
	// 0 1
	// 0 2
}

func ExampleRegex_MatchAt() {
	re := onig.MustCompile(`\d+`)
	n, _ := re.MatchAt([]byte("ab123"), 0, 5, 2, nil, onig.OptionNone)
	fmt.Println(n)
	// Output: 3
}

func ExampleRegex_ReplaceAll() {
	re := onig.MustCompile(`(?<user>\w+)@(?<host>\w+)`)
	out := re.ReplaceAll([]byte("bob@example"), []byte(`\k<host> for \1`))
	fmt.Println(string(out))
	// Output: example for bob
}

func ExampleRegion_TraverseCaptureTree() {
	syn := syntax.Ruby().Clone()
	syn.SetOp2(syn.Op2() | syntax.Op2AtmarkCaptureHistory)
	re, err := onig.New([]byte(`(?@\d)+`), onig.OptionNone, nil, syn)
	if err != nil {
		panic(err)
	}
	buf := []byte("x123")
	region := onig.NewRegion(0)
	if _, err := re.Search(buf, 0, len(buf), 0, len(buf)+1, region, onig.OptionNone); err != nil {
		panic(err)
	}
	_ = region.TraverseCaptureTree(onig.TraverseAtFirst, func(n *onig.CaptureTreeNode, level int, _ onig.TraverseOrder) error {
		fmt.Printf("group %d: %s\n", n.Group, buf[n.Beg:n.End])
		return nil
	})
	// Output:
	// group 1: 1
	// group 1: 2
	// group 1: 3
}

func ExampleNewWithConfig() {
	cfg := onig.DefaultConfig()
	cfg.Syntax = syntax.Python()
	cfg.RetryLimitInMatch = 10_000
	re, err := onig.NewWithConfig([]byte(`(?P<word>\w+) (?P=word)`), onig.OptionIgnoreCase, cfg)
	if err != nil {
		fmt.Println(onig.ErrorMessage(err))
		return
	}
	fmt.Println(re.IsMatch([]byte("Hello hello")))
	// Output: true
}

func ExampleErrorString() {
	fmt.Println(onig.ErrorString(syntax.ErrUndefinedNameReference, []byte("foo")))
	// Output: undefined name <foo> reference
}
