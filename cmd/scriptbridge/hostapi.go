package main

import (
	"fmt"
	"io"
	"os"

	"github.com/reglet-dev/scriptbridge/domain/entities"
	"github.com/reglet-dev/scriptbridge/host"
	"github.com/reglet-dev/scriptbridge/hostfuncs"
)

// hostAPI is the set of functions exposed to scripts as the global "host".
type hostAPI struct {
	out     io.Writer
	maxRead int
}

func newHostAPI(out io.Writer) *hostAPI {
	return &hostAPI{out: out, maxRead: hostfuncs.DefaultMaxOutputSize}
}

func (h *hostAPI) Print(s string) error {
	_, err := fmt.Fprintln(h.out, s)
	return err
}

func (h *hostAPI) Getenv(name string) string {
	return os.Getenv(name)
}

// ReadFile returns the contents of path, refusing files over the output limit.
func (h *hostAPI) ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return hostfuncs.ReadBounded(f, h.maxRead)
}

// install registers the API on a new object and publishes it as "host".
func (h *hostAPI) install(rt *host.Runtime) error {
	obj, err := rt.NewObject()
	if err != nil {
		return err
	}
	defer func() { _ = obj.Release() }()

	bindings := []struct {
		method string
		name   string
	}{
		{method: "Print", name: "print"},
		{method: "Getenv", name: "getenv"},
		{method: "ReadFile", name: "readFile"},
	}
	for _, b := range bindings {
		if _, err := obj.Register(h, b.method, b.name, entities.KindString); err != nil {
			return fmt.Errorf("failed to register host.%s: %w", b.name, err)
		}
	}
	return rt.SetGlobal("host", obj)
}
