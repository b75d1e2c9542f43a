package lexer

const utf8RuneSelf = 0x80

func isWordStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isWordContinue(b byte) bool {
	return isWordStart(b) || (b >= '0' && b <= '9')
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\v' || b == '\f' }

func isContinuationByte(b byte) bool { return b&0xC0 == 0x80 }
