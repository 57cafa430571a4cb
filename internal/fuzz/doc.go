// Package fuzztests houses Go fuzz harnesses for the template front end
// (markup -> blocks -> directives -> prepared template -> render). The goal is
// to catch panics, hangs and malformed diagnostic spans on arbitrary input.
//
// Назначение: прогонять байты через FileSet, разбор директив и компиляцию
// шаблона, затем проверять инварианты из internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/directive, internal/objlit,
// internal/blocks, internal/template, internal/diag, internal/testkit.

package fuzztests
