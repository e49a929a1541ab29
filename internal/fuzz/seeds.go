package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addFixtureSeeds(f)
	addCompilerSeeds(f)
}

// addFixtureSeeds adds the input of every classifier fixture.
func addFixtureSeeds(f *testing.F) {
	root := filepath.Join("..", "diag", "testdata", "classify")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по каталогу фикстур, добавляем поле input всех *.toml
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".toml" {
			return nil
		}
		var fx struct {
			Input string `toml:"input"`
		}
		if _, err := toml.DecodeFile(path, &fx); err != nil {
			return nil
		}
		f.Add(clampSeed([]byte(fx.Input)))
		return nil
	})
	if err != nil {
		return
	}
	// добавляем хотя бы один минимальный пример на случай пустого testdata
	f.Add([]byte{})
	f.Add([]byte("error:"))
}

// addCompilerSeeds adds output shapes of common toolchains.
func addCompilerSeeds(f *testing.F) {
	for _, s := range []string{
		"main.go:3:2: error: undefined: x\n",
		"src/lib.rs:1:5: warning: unused import\n  |\n1 | use std::io;\n",
		"In file included from a.h:1:\nb.c:2:1: error: error: twice\n",
		"\x00\xff\xfe warning:\r\nerror:\r\n",
		"ошибка\nfile.c:1: warning: широкие символы\n",
	} {
		f.Add([]byte(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
