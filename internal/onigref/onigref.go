// Package onigref binds a system libonig through purego so the engine can
// be checked against the C library. Nothing in it is needed at run time:
// when the library is missing Load reports ErrUnavailable and the
// differential tests skip.
package onigref

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/coregx/onig/encoding"
	"github.com/coregx/onig/syntax"
)

// ErrUnavailable is returned when no usable libonig could be loaded.
var ErrUnavailable = errors.New("onigref: libonig not available")

// onigMismatch is ONIG_MISMATCH.
const onigMismatch = -1

var (
	loadOnce sync.Once
	loadErr  error
	lib      uintptr

	// OnigEncoding and OnigSyntaxType* values, by our names.
	encodings = map[string]uintptr{}
	syntaxes  = map[string]uintptr{}
)

func libraryNames() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"libonig.5.dylib", "libonig.dylib", "/opt/homebrew/lib/libonig.dylib", "/usr/local/lib/libonig.dylib"}
	case "windows":
		return []string{"onig.dll", "libonig.dll"}
	}
	return []string{"libonig.so.5", "libonig.so"}
}

var encodingSymbols = map[string]string{
	encoding.UTF8.Name():      "OnigEncodingUTF8",
	encoding.ASCII.Name():     "OnigEncodingASCII",
	encoding.ISO8859_1.Name(): "OnigEncodingISO_8859_1",
	encoding.EUCJP.Name():     "OnigEncodingEUC_JP",
	encoding.ShiftJIS.Name():  "OnigEncodingSJIS",
}

var syntaxSymbols = map[string]string{
	"ASIS":          "OnigSyntaxASIS",
	"PosixBasic":    "OnigSyntaxPosixBasic",
	"PosixExtended": "OnigSyntaxPosixExtended",
	"Emacs":         "OnigSyntaxEmacs",
	"Grep":          "OnigSyntaxGrep",
	"GnuRegex":      "OnigSyntaxGnuRegex",
	"Java":          "OnigSyntaxJava",
	"Perl":          "OnigSyntaxPerl",
	"PerlNG":        "OnigSyntaxPerl_NT",
	"Python":        "OnigSyntaxPython",
	"Ruby":          "OnigSyntaxRuby",
}

// Load opens libonig once and initializes it for UTF-8.
func Load() error {
	loadOnce.Do(func() { loadErr = load() })
	return loadErr
}

// Available reports whether Load succeeded.
func Available() bool { return Load() == nil }

func load() error {
	var err error
	for _, name := range libraryNames() {
		if lib, err = openLibrary(name); err == nil {
			break
		}
	}
	if lib == 0 {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	funcs := []struct {
		fptr any
		name string
	}{
		{&onig_initialize, "onig_initialize"},
		{&onig_version, "onig_version"},
		{&onig_new, "onig_new"},
		{&onig_free, "onig_free"},
		{&onig_region_new, "onig_region_new"},
		{&onig_region_free, "onig_region_free"},
		{&onig_search, "onig_search"},
	}
	for _, f := range funcs {
		if _, err := lookupSymbol(lib, f.name); err != nil {
			return fmt.Errorf("%w: missing %s", ErrUnavailable, f.name)
		}
		purego.RegisterLibFunc(f.fptr, lib, f.name)
	}

	for ours, sym := range encodingSymbols {
		if addr, err := lookupSymbol(lib, sym); err == nil {
			encodings[ours] = addr
		}
	}
	for ours, sym := range syntaxSymbols {
		if addr, err := lookupSymbol(lib, sym); err == nil {
			syntaxes[ours] = addr
		}
	}
	utf8, ok := encodings[encoding.UTF8.Name()]
	if !ok {
		return fmt.Errorf("%w: missing OnigEncodingUTF8", ErrUnavailable)
	}
	use := [1]uintptr{utf8}
	if rc := onig_initialize(&use[0], 1); rc != 0 {
		return fmt.Errorf("%w: onig_initialize: %d", ErrUnavailable, rc)
	}
	return nil
}

// Version returns the library version, or "" when it is not loaded.
func Version() string {
	if Load() != nil {
		return ""
	}
	return goString(onig_version())
}

func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	var b []byte
	for {
		c := *(*byte)(unsafe.Pointer(p)) //nolint:govet // C-owned memory
		if c == 0 {
			return string(b)
		}
		b = append(b, c)
		p++
	}
}

// Regex is a pattern compiled by libonig. Call Free when done.
type Regex struct {
	reg uintptr
}

// New compiles pattern with libonig. Error codes share numbering with
// syntax.ErrorCode.
func New(pattern []byte, opt syntax.Option, enc encoding.Encoding, syn *syntax.Syntax) (*Regex, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	if enc == nil {
		enc = encoding.UTF8
	}
	if syn == nil {
		syn = syntax.Default()
	}
	encPtr, ok := encodings[enc.Name()]
	if !ok {
		return nil, fmt.Errorf("%w: encoding %s", ErrUnavailable, enc.Name())
	}
	synPtr, ok := syntaxes[syn.Name()]
	if !ok {
		return nil, fmt.Errorf("%w: syntax %s", ErrUnavailable, syn.Name())
	}

	var pinner runtime.Pinner
	defer pinner.Unpin()
	start, end := pin(&pinner, pattern)

	var reg uintptr
	var einfo errorInfo
	if rc := onig_new(&reg, start, end, uint32(opt), encPtr, synPtr, &einfo); rc != 0 {
		return nil, syntax.ErrorCode(rc)
	}
	return &Regex{reg: reg}, nil
}

// Free releases the compiled pattern.
func (r *Regex) Free() {
	if r.reg != 0 {
		onig_free(r.reg)
		r.reg = 0
	}
}

// Search runs onig_search over the whole of buf from start toward rng.
// It returns the match position, or -1, and the region as begin/end pairs.
func (r *Regex) Search(buf []byte, start, rng int, opt syntax.Option) (int, []int, error) {
	region := onig_region_new()
	defer onig_region_free(region, 1)

	var pinner runtime.Pinner
	defer pinner.Unpin()
	str, end := pin(&pinner, buf)

	rc := onig_search(r.reg, str, end, str+uintptr(start), str+uintptr(rng), region, uint32(opt))
	switch {
	case rc == onigMismatch:
		return -1, nil, nil
	case rc < 0:
		return -1, nil, syntax.ErrorCode(rc)
	}

	cr := (*cRegion)(unsafe.Pointer(region)) //nolint:govet // C-owned memory
	n := int(cr.numRegs)
	begs := unsafe.Slice(cr.beg, n)
	ends := unsafe.Slice(cr.end, n)
	out := make([]int, 2*n)
	for i := 0; i < n; i++ {
		out[2*i] = int(begs[i])
		out[2*i+1] = int(ends[i])
	}
	return int(rc), out, nil
}

// pin keeps b in place for the duration of a C call and returns its
// bounds as addresses. An empty slice maps to a one-byte dummy so the
// pointers stay valid.
func pin(p *runtime.Pinner, b []byte) (start, end uintptr) {
	if len(b) == 0 {
		b = make([]byte, 1)
		p.Pin(&b[0])
		start = uintptr(unsafe.Pointer(&b[0]))
		return start, start
	}
	p.Pin(&b[0])
	start = uintptr(unsafe.Pointer(&b[0]))
	return start, start + uintptr(len(b))
}
