// Package runtime inspects the opaque runtime code blob placed in genesis.
// It never executes the code; it only checks that the blob compiles as a
// WebAssembly module and reports what it exports.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/zeebo/blake3"
)

// ErrInvalidCode is returned when the blob is not a valid WebAssembly module.
var ErrInvalidCode = errors.New("invalid runtime code")

// wasmMagic is the WebAssembly binary preamble.
var wasmMagic = []byte{0x00, 'a', 's', 'm'}

// Info describes a compiled runtime blob.
type Info struct {
	Hash    [32]byte // Hash is the blake3 hash of the blob
	Size    int      // Size is the blob length in bytes
	Exports []string // Exports are the exported function names, sorted
}

// Inspect compiles code with wazero and returns its description.
func Inspect(ctx context.Context, code []byte) (Info, error) {
	if len(code) < len(wasmMagic) || string(code[:len(wasmMagic)]) != string(wasmMagic) {
		return Info{}, fmt.Errorf("%w: missing wasm preamble", ErrInvalidCode)
	}

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, code)
	if err != nil {
		return Info{}, fmt.Errorf("%w: compile module:\n%v", ErrInvalidCode, err)
	}
	defer compiled.Close(ctx)

	exports := make([]string, 0, len(compiled.ExportedFunctions()))
	for name := range compiled.ExportedFunctions() {
		exports = append(exports, name)
	}

	sort.Strings(exports)

	return Info{
		Hash:    blake3.Sum256(code),
		Size:    len(code),
		Exports: exports,
	}, nil
}

// Load reads a runtime blob from path and inspects it.
func Load(ctx context.Context, path string) ([]byte, Info, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("read runtime code:\n%w", err)
	}

	info, err := Inspect(ctx, code)
	if err != nil {
		return nil, Info{}, fmt.Errorf("inspect %s:\n%w", path, err)
	}

	return code, info, nil
}
