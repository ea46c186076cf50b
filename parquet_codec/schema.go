// Package parquet_codec snapshots frame tables to parquet bytes and back.
// The schema string is generated from the table's column dtypes in the tag
// format parquet-go's JSON writer wants.
package parquet_codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/floedata/floe/frame"
)

type (
	SchemaTag struct {
		Name           string         `json:"name,omitempty"`
		Type           string         `json:"type,omitempty"`
		ConvertedType  string         `json:"convertedtype,omitempty"`
		RepetitionType RepetitionType `json:"repetitiontype,omitempty"`
		Encoding       string         `json:"encoding,omitempty"`
	}

	ParquetJSONSchema struct {
		Tag    string               `json:",omitempty"`
		Fields []*ParquetJSONSchema `json:",omitempty"`
	}

	RepetitionType string
)

var (
	Optional RepetitionType = "OPTIONAL"
	Required RepetitionType = "REQUIRED"
)

// fieldTag maps a column to its parquet schema tag. Every column is OPTIONAL
// because any column may carry missing values.
func fieldTag(c *frame.Column) (SchemaTag, error) {
	tag := SchemaTag{
		// parquet-go matches names case-insensitively and capitalizes the
		// generated struct fields anyway
		Name:           strings.ToUpper(c.Name()[:1]) + c.Name()[1:],
		RepetitionType: Optional,
	}
	switch c.DType() {
	case frame.Float64:
		tag.Type = "DOUBLE"
	case frame.Int64:
		tag.Type = "INT64"
	case frame.String:
		tag.Type = "BYTE_ARRAY"
		tag.ConvertedType = "UTF8"
		tag.Encoding = "PLAIN"
	case frame.Bool:
		tag.Type = "BOOLEAN"
	default:
		return tag, fmt.Errorf("column %q has unmappable dtype %s", c.Name(), c.DType())
	}
	return tag, nil
}

func (st SchemaTag) tagString() string {
	var parts []string
	if st.Type != "" {
		parts = append(parts, "type="+st.Type)
	}
	if st.ConvertedType != "" {
		parts = append(parts, "convertedtype="+st.ConvertedType)
	}
	if st.Encoding != "" {
		parts = append(parts, "encoding="+st.Encoding)
	}
	if st.Name != "" {
		parts = append(parts, "name="+st.Name)
	}
	if string(st.RepetitionType) != "" {
		parts = append(parts, "repetitiontype="+string(st.RepetitionType))
	}
	return strings.Join(parts, ", ")
}

// SchemaString returns the JSON formatted schema string for a table
func SchemaString(t *frame.Table) (string, error) {
	var fields []*ParquetJSONSchema
	for _, c := range t.Columns() {
		tag, err := fieldTag(c)
		if err != nil {
			return "", err
		}
		fields = append(fields, &ParquetJSONSchema{Tag: tag.tagString()})
	}
	pjs := ParquetJSONSchema{
		Tag:    "name=parquet_go_root, repetitiontype=REQUIRED",
		Fields: fields,
	}

	b, err := json.Marshal(pjs)
	if err != nil {
		return "", fmt.Errorf("error in json.Marshal: %w", err)
	}
	return string(b), nil
}
