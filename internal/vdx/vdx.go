// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vdx builds and writes legacy Visio 2003 VDX XML documents.
// Output is structural only: document properties, pages, and shape
// placement. That lossiness is an accepted design boundary of the tool.
package vdx

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/pdiddy/vdxconvert/internal/vsdx"
)

// Namespace is the Visio 2003 core schema the VDX format declares.
const Namespace = "http://schemas.microsoft.com/visio/2003/core"

// Creator is the tool name stamped into DocumentProperties.
const Creator = "vdxconvert"

// VisioDocument is the VDX root element.
type VisioDocument struct {
	XMLName    xml.Name           `xml:"VisioDocument"`
	Xmlns      string             `xml:"xmlns,attr"`
	Properties DocumentProperties `xml:"DocumentProperties"`
	Pages      Pages              `xml:"Pages"`
}

// DocumentProperties carries the document title and creator.
type DocumentProperties struct {
	Title   string `xml:"Title"`
	Creator string `xml:"Creator"`
}

// Pages wraps the page list.
type Pages struct {
	Page []Page `xml:"Page"`
}

// Page is one drawing page.
type Page struct {
	ID         int            `xml:"ID,attr"`
	Name       string         `xml:"Name,attr"`
	Properties PageProperties `xml:"PageProperties"`
	Shapes     Shapes         `xml:"Shapes"`
}

// PageProperties carries the page dimensions.
type PageProperties struct {
	PageWidth  float64 `xml:"PageWidth"`
	PageHeight float64 `xml:"PageHeight"`
}

// Shapes wraps the shape list.
type Shapes struct {
	Shape []Shape `xml:"Shape"`
}

// Shape is one shape with its placement properties.
type Shape struct {
	ID         int             `xml:"ID,attr"`
	Name       string          `xml:"Name,attr"`
	Properties ShapeProperties `xml:"ShapeProperties"`
}

// ShapeProperties carries optional position and size. Nil fields are
// omitted from the output, matching shapes whose source does not expose
// the value.
type ShapeProperties struct {
	PosX   *float64 `xml:"PosX,omitempty"`
	PosY   *float64 `xml:"PosY,omitempty"`
	Width  *float64 `xml:"Width,omitempty"`
	Height *float64 `xml:"Height,omitempty"`
}

// FromDocument maps a structural drawing into the VDX model. Page and
// shape IDs are 1-indexed; shapes without a source name are assigned
// "Shape_<n>" by their 1-indexed position on the page.
func FromDocument(doc *vsdx.Document, title string) *VisioDocument {
	out := &VisioDocument{
		Xmlns: Namespace,
		Properties: DocumentProperties{
			Title:   title,
			Creator: Creator,
		},
	}

	for pi, page := range doc.Pages {
		vp := Page{
			ID:   pi + 1,
			Name: page.Name,
			Properties: PageProperties{
				PageWidth:  page.Width,
				PageHeight: page.Height,
			},
		}

		for si, shape := range page.Shapes {
			name := shape.Name
			if name == "" {
				name = fmt.Sprintf("Shape_%d", si+1)
			}
			vs := Shape{ID: si + 1, Name: name}
			if shape.HasPos {
				x, y := shape.X, shape.Y
				vs.Properties.PosX = &x
				vs.Properties.PosY = &y
			}
			if shape.HasSize {
				w, h := shape.Width, shape.Height
				vs.Properties.Width = &w
				vs.Properties.Height = &h
			}
			vp.Shapes.Shape = append(vp.Shapes.Shape, vs)
		}

		out.Pages.Page = append(out.Pages.Page, vp)
	}

	return out
}

// Write marshals the document with an XML declaration to path.
func Write(doc *VisioDocument, path string) error {
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling VDX document: %w", err)
	}
	content := append([]byte(xml.Header), data...)
	content = append(content, '\n')
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
