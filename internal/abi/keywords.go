package abi

// keywords maps every IDL type keyword to its descriptor.
// ilong/i64 and ulong/u64 are synonyms.
var keywords = map[string]Type{
	"void":   {Class: Void},
	"i8":     {Class: SignedInt, Width: 8},
	"i16":    {Class: SignedInt, Width: 16},
	"i32":    {Class: SignedInt, Width: 32},
	"i64":    {Class: SignedInt, Width: 64},
	"ilong":  {Class: SignedInt, Width: 64},
	"u1":     {Class: UnsignedInt, Width: 1},
	"u8":     {Class: UnsignedInt, Width: 8},
	"u16":    {Class: UnsignedInt, Width: 16},
	"u32":    {Class: UnsignedInt, Width: 32},
	"u64":    {Class: UnsignedInt, Width: 64},
	"ulong":  {Class: UnsignedInt, Width: 64},
	"f32":    {Class: Float, Width: 32},
	"f64":    {Class: Float, Width: 64},
	"fd":     {Class: FileDescriptor, Width: PointerWidth},
	"fnptr":  {Class: FunctionPointer, Width: PointerWidth},
	"string": {Class: String, Width: PointerWidth},
	"cplx":   {Class: Complex},
	"ptr":    {Class: MemoryPointer, Width: PointerWidth},
}

// Lookup returns the descriptor for an IDL type keyword.
// Keywords are case-sensitive.
func Lookup(keyword string) (Type, bool) {
	t, ok := keywords[keyword]
	return t, ok
}

// Keywords returns every IDL type keyword; order is unspecified.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	return out
}
