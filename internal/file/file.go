package file

import (
	"io/ioutil"
	"os"
	"path/filepath"
)

// WriteAtomically lets write fill a temporary file next to dest, then renames it over dest.
// dest is left untouched when write fails.
func WriteAtomically(dest string, write func(f *os.File) error) error {
	tf, err := ioutil.TempFile(filepath.Dir(dest), filepath.Base(dest))
	if err != nil {
		return err
	}
	defer func() {
		_ = tf.Close()
		_ = os.Remove(tf.Name())
	}()

	err = write(tf)
	if err != nil {
		return err
	}

	err = tf.Sync()
	if err != nil {
		return err
	}

	err = tf.Close()
	if err != nil {
		return err
	}

	return os.Rename(tf.Name(), dest)
}

// Append appends data to the file at path, creating it if needed
func Append(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return err
	}

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	return err
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
