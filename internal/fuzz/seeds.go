package fuzztests

import "testing"

const maxFuzzInput = 1 << 14

var corpusSeeds = []string{
	"",
	"# only a comment",
	"# comment at eof without newline\n# again",
	"library \"libm.so.6\";\nf64 sin(f64 x);\n",
	"library \"libc.so.6\";\nconst string getenv(const string name);\n",
	"library \"libz.so\";\ni32 compress(ptr(dst) dst, ptr(len) len, ptr src, ulong n);\n",
	"library \"\";\nvoid f();\n",
	"void f();",
	"library \"m\";\ni32 abs(i32 x,);",
	"library \"m\";\nvoid f(\n# inside\n);",
	"library \"unterminated;",
	"i32 f@();",
	"library \"a\"; library \"b\"; u1 g(cplx c, fd h, fnptr cb);",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range corpusSeeds {
		f.Add([]byte(s))
	}
}

func clip(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
