// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package sheets

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WorkbookProvider reads local Excel workbooks. Locations are file paths with
// an Excel extension or file:// URLs. The file is re-read on every lookup.
type WorkbookProvider struct{}

var _ Matcher = WorkbookProvider{}

var workbookExtensions = map[string]struct{}{
	".xlsx": {},
	".xlsm": {},
	".xltx": {},
	".xltm": {},
}

func (WorkbookProvider) Accepts(location string) bool {
	if strings.HasPrefix(location, "file://") {
		return true
	}
	_, ok := workbookExtensions[strings.ToLower(filepath.Ext(location))]
	return ok
}

func (WorkbookProvider) Open(_ context.Context, location string) (Spreadsheet, error) {
	path := strings.TrimPrefix(location, "file://")
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, external("open", location, err)
	}
	defer f.Close()
	return &workbook{path: path, names: f.GetSheetList()}, nil
}

type workbook struct {
	path  string
	names []string
}

func (w *workbook) Worksheet(_ context.Context, index int) (Worksheet, error) {
	if index < 0 || index >= len(w.names) {
		return nil, fmt.Errorf("%w: workbook %s has %d sheets, wanted sheet %d",
			ErrWorksheetNotFound, w.path, len(w.names), index+1)
	}
	return &workbookSheet{path: w.path, name: w.names[index]}, nil
}

type workbookSheet struct {
	path string
	name string
}

func (s *workbookSheet) Values(_ context.Context) ([][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, external("read", s.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.name)
	if err != nil {
		return nil, external("read", s.path, err)
	}
	return rows, nil
}
