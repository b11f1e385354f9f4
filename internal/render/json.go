package render

import (
	"io"

	"github.com/bytedance/sonic"
)

// FprintJSON writes list as indented JSON.
func FprintJSON(w io.Writer, list *DisplayList) error {
	data, err := sonic.ConfigStd.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
