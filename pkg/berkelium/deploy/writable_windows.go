//go:build windows

package deploy

import "os"

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".berkelium-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
