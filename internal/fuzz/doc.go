// Package fuzztests houses Go fuzz harnesses for the diagnostic classifier
// and the command shell. Its goal is to smoke test robustness on arbitrary
// build output and arbitrary command lines.
//
// Назначение: прогонять произвольные байты через diag.Classify и произвольные
// строки через session.Shell, проверяя инварианты записей.
//
// Не делает: запуск реальных сборок, запись файлов, выполнение CLI.
//
// Зависимости: internal/diag, internal/session.

package fuzztests
