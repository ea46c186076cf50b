package parquet_codec

import (
	"testing"

	"github.com/floedata/floe/frame"
	"github.com/floedata/floe/utils"
)

func TestSchemaString(t *testing.T) {
	tbl := frame.MustNew(
		frame.Strings("species", "Adelie"),
		frame.Floats("mass", 3750),
		frame.Ints("year", 2007),
		frame.Bools("alive", true),
	)

	schemaString, err := SchemaString(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if schemaString != `{"Tag":"name=parquet_go_root, repetitiontype=REQUIRED","Fields":[{"Tag":"type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN, name=Species, repetitiontype=OPTIONAL"},{"Tag":"type=DOUBLE, name=Mass, repetitiontype=OPTIONAL"},{"Tag":"type=INT64, name=Year, repetitiontype=OPTIONAL"},{"Tag":"type=BOOLEAN, name=Alive, repetitiontype=OPTIONAL"}]}` {
		t.Log(schemaString)
		t.Fatal("got incorrect schema string")
	}
}

func TestFullCycle(t *testing.T) {
	tbl := frame.MustNew(
		frame.Strings("species", "Adelie", "Gentoo", "Chinstrap"),
		frame.FloatsPtr("mass", utils.Ptr(3750.0), nil, utils.Ptr(3800.0)),
		frame.Ints("year", 2007, 2008, 2009),
		frame.BoolsPtr("alive", utils.Ptr(true), utils.Ptr(false), nil),
	)

	data, err := Marshal(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("got empty parquet bytes")
	}

	got, err := Unmarshal(data, tbl)
	if err != nil {
		t.Fatal(err)
	}

	if !got.Equal(tbl) {
		t.Log(got)
		t.Fatal("round trip changed the table")
	}
}

func TestFullCycleEmptyTable(t *testing.T) {
	tbl := frame.MustNew(
		frame.Empty("species", frame.String),
		frame.Empty("mass", frame.Float64),
	)

	data, err := Marshal(tbl)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Unmarshal(data, tbl)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumRows() != 0 {
		t.Fatalf("expected 0 rows, got %d", got.NumRows())
	}
	if !got.Equal(tbl) {
		t.Log(got)
		t.Fatal("round trip changed the schema")
	}
}
