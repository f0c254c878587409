package project

import (
	"io"

	"github.com/potools/pocat"
)

//go:generate mockgen -source=$GOFILE -package mock_pocat -destination=../test/mock/$GOFILE

// Codec reads and writes catalogs in an editable interchange format.
type Codec interface {
	Read(r io.Reader) (*pocat.Catalog, error)
	Write(w io.Writer, c *pocat.Catalog) error
	// Ext is the filename extension the codec conventionally uses,
	// including the leading dot.
	Ext() string
}

// Compiler writes catalogs in a runtime-consumable format.
type Compiler interface {
	Compile(w io.Writer, c *pocat.Catalog) error
	Ext() string
}
