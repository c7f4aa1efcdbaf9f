package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
)

const (
	workbookPart      = "xl/workbook.xml"
	workbookRelsPart  = "xl/_rels/workbook.xml.rels"
	sharedStringsPart = "xl/sharedStrings.xml"
)

// sheetRef is a sheet declared in workbook.xml.
type sheetRef struct {
	name string
	rID  string
}

// LoadWorkbook reads every sheet of an xlsx file as a dense table of strings.
func LoadWorkbook(path string) (*models.Workbook, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, &LoadError{Part: filepath.Base(path), Err: invalidXML(err)}
	}
	defer r.Close()

	return readWorkbook(&r.Reader, filepath.Base(path))
}

// ReadWorkbook reads an xlsx archive that is already available as a ReaderAt.
func ReadWorkbook(ra io.ReaderAt, size int64, bookName string) (*models.Workbook, error) {
	r, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, &LoadError{Part: bookName, Err: invalidXML(err)}
	}
	return readWorkbook(r, bookName)
}

func readWorkbook(r *zip.Reader, bookName string) (*models.Workbook, error) {
	shared, err := loadSharedStrings(r)
	if err != nil {
		return nil, &LoadError{Part: sharedStringsPart, Err: err}
	}

	workbookXML, err := readZipFile(r, workbookPart)
	if err != nil {
		return nil, &LoadError{Part: workbookPart, Err: err}
	}
	refs, err := parseWorkbookSheets(workbookXML)
	if err != nil {
		return nil, &LoadError{Part: workbookPart, Err: err}
	}

	relsXML, err := readZipFile(r, workbookRelsPart)
	if err != nil {
		return nil, &LoadError{Part: workbookRelsPart, Err: err}
	}
	targets, err := parseWorkbookRels(relsXML)
	if err != nil {
		return nil, &LoadError{Part: workbookRelsPart, Err: err}
	}

	wb := &models.Workbook{BookName: bookName}
	for _, ref := range refs {
		target, ok := targets[ref.rID]
		if !ok {
			return nil, &LoadError{
				Part: workbookRelsPart,
				Err:  fmt.Errorf("%w: %q for sheet %q", ErrMissingRelationship, ref.rID, ref.name),
			}
		}

		sheetPath := resolveRelativePath(target, "xl")
		sheetXML, err := readZipFile(r, sheetPath)
		if err != nil {
			return nil, &LoadError{Part: sheetPath, Err: err}
		}

		rows, err := parseSheetRows(sheetXML, shared)
		if err != nil {
			return nil, &LoadError{Part: sheetPath, Err: err}
		}
		wb.Sheets = append(wb.Sheets, models.Sheet{Name: ref.name, Rows: rows})
	}

	return wb, nil
}

// loadSharedStrings returns the shared-string table, or nil when the
// archive has none.
func loadSharedStrings(r *zip.Reader) ([]string, error) {
	if !hasZipFile(r, sharedStringsPart) {
		return nil, nil
	}
	data, err := readZipFile(r, sharedStringsPart)
	if err != nil {
		return nil, err
	}

	var shared []string
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, invalidXML(err)
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "si" {
			text, err := collectText(decoder)
			if err != nil {
				return nil, invalidXML(err)
			}
			shared = append(shared, text)
		}
	}

	return shared, nil
}

// parseWorkbookSheets returns the declared sheets in workbook order.
func parseWorkbookSheets(data []byte) ([]sheetRef, error) {
	var refs []sheetRef
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, invalidXML(err)
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var ref sheetRef
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					ref.name = attr.Value
				case "id":
					ref.rID = attr.Value
				}
			}
			refs = append(refs, ref)
		}
	}

	return refs, nil
}

// parseWorkbookRels maps relationship ids to their targets.
func parseWorkbookRels(data []byte) (map[string]string, error) {
	result := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, invalidXML(err)
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rID, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rID = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if rID != "" {
				result[rID] = target
			}
		}
	}

	return result, nil
}

// parseSheetRows reconstructs the rows under sheetData.
func parseSheetRows(data []byte, shared []string) ([][]string, error) {
	var rows [][]string
	inSheetData := false
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, invalidXML(err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sheetData":
				inSheetData = true
			case "row":
				if !inSheetData {
					continue
				}
				row, err := parseRow(decoder, shared)
				if err != nil {
					return nil, err
				}
				if row != nil {
					rows = append(rows, row)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "sheetData" {
				inSheetData = false
			}
		}
	}

	return rows, nil
}

// parseRow consumes a row element and returns its dense values, or nil
// when the row has no cells.
func parseRow(decoder *xml.Decoder, shared []string) ([]string, error) {
	values := make(map[int]string)
	maxCol := 0

	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, invalidXML(err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "c" {
				if err := decoder.Skip(); err != nil {
					return nil, invalidXML(err)
				}
				continue
			}
			cell, err := parseCell(decoder, t)
			if err != nil {
				return nil, err
			}
			col, err := ColumnIndex(cell.ref)
			if err != nil {
				continue
			}
			values[col] = cell.value(shared)
			if col > maxCol {
				maxCol = col
			}
		case xml.EndElement:
			if len(values) == 0 {
				return nil, nil
			}
			row := make([]string, maxCol)
			for col, v := range values {
				row[col-1] = v
			}
			return row, nil
		}
	}
}

// parseCell consumes a c element.
func parseCell(decoder *xml.Decoder, start xml.StartElement) (rawCell, error) {
	cell := rawCell{ref: "A1"}
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "r":
			cell.ref = attr.Value
		case "t":
			cell.cellType = attr.Value
		}
	}

	for {
		token, err := decoder.Token()
		if err != nil {
			return cell, invalidXML(err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "v":
				cell.raw, err = readElementText(decoder)
				cell.hasValue = true
			case "is":
				cell.inline, err = collectText(decoder)
				cell.hasInline = true
			default:
				err = decoder.Skip()
			}
			if err != nil {
				return cell, invalidXML(err)
			}
		case xml.EndElement:
			return cell, nil
		}
	}
}

func hasZipFile(r *zip.Reader, name string) bool {
	for _, f := range r.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

// readZipFile reads a file from a zip archive.
func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, invalidXML(err)
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
}

// readElementText reads the character data of the element whose start
// token was just consumed.
func readElementText(decoder *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return sb.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return sb.String(), nil
}

// collectText concatenates the text of every t element nested below the
// element whose start token was just consumed (plain and rich-text runs).
func collectText(decoder *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth, inText := 1, 0
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return sb.String(), err
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "t" {
				inText++
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" && inText > 0 {
				inText--
			}
		case xml.CharData:
			if inText > 0 {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// resolveRelativePath maps a relationship target to its part name.
func resolveRelativePath(target, baseDir string) string {
	clean := strings.TrimPrefix(target, "/")
	for strings.HasPrefix(clean, "../") {
		clean = strings.TrimPrefix(clean, "../")
	}
	if strings.HasPrefix(clean, baseDir+"/") {
		return clean
	}
	return baseDir + "/" + clean
}
