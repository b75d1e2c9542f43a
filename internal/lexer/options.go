package lexer

import (
	"nlib/internal/diag"
	"nlib/internal/source"
)

type Options struct {
	Reporter diag.Reporter // nil: ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
