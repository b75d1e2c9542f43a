package token

var keywords = map[string]Kind{
	"library": KwLibrary,
	"const":   KwConst,
	"void":    KwVoid,
	"i8":      KwI8,
	"i16":     KwI16,
	"i32":     KwI32,
	"i64":     KwI64,
	"ilong":   KwIlong,
	"u1":      KwU1,
	"u8":      KwU8,
	"u16":     KwU16,
	"u32":     KwU32,
	"u64":     KwU64,
	"ulong":   KwUlong,
	"f32":     KwF32,
	"f64":     KwF64,
	"fd":      KwFd,
	"fnptr":   KwFnptr,
	"string":  KwString,
	"cplx":    KwCplx,
	"ptr":     KwPtr,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
