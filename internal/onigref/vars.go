package onigref

var (
	// int onig_initialize(OnigEncoding encodings[], int n);
	onig_initialize func(encodings *uintptr, n int32) int32

	// const char* onig_version(void);
	onig_version func() uintptr

	// int onig_new(regex_t** reg, const UChar* pattern, const UChar* pattern_end,
	//     OnigOptionType option, OnigEncoding enc, OnigSyntaxType* syntax,
	//     OnigErrorInfo* einfo);
	onig_new func(reg *uintptr, pattern, patternEnd uintptr, option uint32, enc, syntax uintptr, einfo *errorInfo) int32

	// void onig_free(regex_t* reg);
	onig_free func(reg uintptr)

	// OnigRegion* onig_region_new(void);
	onig_region_new func() uintptr

	// void onig_region_free(OnigRegion* region, int free_self);
	onig_region_free func(region uintptr, freeSelf int32)

	// int onig_search(regex_t* reg, const UChar* str, const UChar* end,
	//     const UChar* start, const UChar* range, OnigRegion* region,
	//     OnigOptionType option);
	onig_search func(reg, str, end, start, rng, region uintptr, option uint32) int32
)

// errorInfo mirrors OnigErrorInfo.
type errorInfo struct {
	enc    uintptr
	par    uintptr
	parEnd uintptr
}

// cRegion mirrors the leading fields of OnigRegion.
type cRegion struct {
	allocated int32
	numRegs   int32
	beg       *int32
	end       *int32
}
