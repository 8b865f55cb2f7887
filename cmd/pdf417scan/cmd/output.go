package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	pdf417go "github.com/ericlevine/pdf417go"
)

// fileReport is the outcome of scanning one file.
type fileReport struct {
	File     string          `json:"file" yaml:"file"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
	Barcodes []barcodeReport `json:"barcodes" yaml:"barcodes"`
}

type barcodeReport struct {
	Text              string    `json:"text" yaml:"text"`
	PayloadHex        string    `json:"payload_hex" yaml:"payload_hex"`
	CharacterSet      string    `json:"charset" yaml:"charset"`
	GLICharacterSet   int       `json:"gli_charset,omitempty" yaml:"gli_charset,omitempty"`
	GLIGeneralPurpose int       `json:"gli_general_purpose,omitempty" yaml:"gli_general_purpose,omitempty"`
	GLIUserDefined    int       `json:"gli_user_defined,omitempty" yaml:"gli_user_defined,omitempty"`
	Rows              int       `json:"rows" yaml:"rows"`
	Columns           int       `json:"columns" yaml:"columns"`
	ECLength          int       `json:"ec_length" yaml:"ec_length"`
	ErrorsCorrected   int       `json:"errors_corrected" yaml:"errors_corrected"`
	Orientation       string    `json:"orientation" yaml:"orientation"`
	Corners           [4][2]int `json:"corners" yaml:"corners,flow"`
}

func (r *fileReport) failed() bool {
	return r.Error != "" || len(r.Barcodes) == 0
}

// newBarcodeReport converts res, decoding its payload with its own
// character set or fallback when it has none.
func newBarcodeReport(res *pdf417go.Result, fallback string) (barcodeReport, error) {
	cs := res.CharacterSet
	if cs == "" {
		cs = fallback
	}
	text, err := pdf417go.BinaryDataToString(res.Payload, cs)
	if err != nil {
		return barcodeReport{}, err
	}
	report := barcodeReport{
		Text:              text,
		PayloadHex:        hex.EncodeToString(res.Payload),
		CharacterSet:      cs,
		GLICharacterSet:   res.GLICharacterSet,
		GLIGeneralPurpose: res.GLIGeneralPurpose,
		GLIUserDefined:    res.GLIUserDefined,
		Rows:              res.Rows,
		Columns:           res.Columns,
		ECLength:          res.ECLength,
		ErrorsCorrected:   res.ErrorsCorrected,
		Orientation:       res.Orientation.String(),
	}
	for i, p := range res.Corners {
		report.Corners[i] = [2]int{int(p.X), int(p.Y)}
	}
	return report, nil
}

// writeReports prints the reports to out in the given format. In text
// format failures go to errOut, one line per file.
func writeReports(out, errOut io.Writer, format string, reports []fileReport) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	}

	prefix := len(reports) > 1
	for _, r := range reports {
		switch {
		case r.Error != "":
			fmt.Fprintf(errOut, "%s: error: %s\n", r.File, r.Error)
		case len(r.Barcodes) == 0:
			fmt.Fprintf(errOut, "%s: no barcodes found\n", r.File)
		}
		for _, b := range r.Barcodes {
			if prefix {
				fmt.Fprintf(out, "%s: ", r.File)
			}
			fmt.Fprintln(out, b.Text)
		}
	}
	return nil
}
