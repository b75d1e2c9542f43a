// Package fuzztests houses Go fuzz harnesses for the IDL front end
// (source -> lexer -> parser -> commit validation). They guard against
// panics, hangs and malformed trees on arbitrary input.
//
// Не делает: загрузку нативных библиотек, запись файлов.
package fuzztests
