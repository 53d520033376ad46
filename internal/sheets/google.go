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
	"os"
	"regexp"
	"strings"
	"time"

	"google.golang.org/api/impersonate"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Config configures access to Google Sheets.
type Config struct {
	// CredentialsFile is a service account key file. When empty, Application
	// Default Credentials are used.
	CredentialsFile string `mapstructure:"credentials_file"`
	// ImpersonateServiceAccount, when set, is the service account email the
	// credentials act as.
	ImpersonateServiceAccount string `mapstructure:"impersonate_service_account"`
	// Timeout bounds each call to the Sheets API. Zero means no limit.
	Timeout time.Duration `mapstructure:"timeout"`
	// Endpoint overrides the API base URL.
	Endpoint string `mapstructure:"endpoint"`
}

func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second}
}

var (
	spreadsheetURLKey = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	legacyURLKey      = regexp.MustCompile(`[?&]key=([^&#]+)`)
	bareKey           = regexp.MustCompile(`^[a-zA-Z0-9_-]{20,}$`)
)

// SpreadsheetID extracts the spreadsheet id from a Google Sheets URL, or
// returns location unchanged when it already looks like an id.
func SpreadsheetID(location string) (string, error) {
	location = strings.TrimSpace(location)
	if m := spreadsheetURLKey.FindStringSubmatch(location); m != nil {
		return m[1], nil
	}
	if m := legacyURLKey.FindStringSubmatch(location); m != nil {
		return m[1], nil
	}
	if bareKey.MatchString(location) {
		return location, nil
	}
	return "", invalid("location", location, "not a Google Sheets URL")
}

// GoogleProvider reads spreadsheets through the Google Sheets API v4.
type GoogleProvider struct {
	svc     *gsheets.Service
	timeout time.Duration
}

var _ Matcher = (*GoogleProvider)(nil)

// NewGoogleProvider builds a Sheets client from cfg. Extra client options are
// appended after the ones derived from cfg.
func NewGoogleProvider(ctx context.Context, cfg Config, opts ...option.ClientOption) (*GoogleProvider, error) {
	clientOpts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsReadonlyScope)}

	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); err != nil {
			return nil, fmt.Errorf("google service account file: %w", err)
		}
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	if cfg.ImpersonateServiceAccount != "" {
		ts, err := impersonate.CredentialsTokenSource(ctx, impersonate.CredentialsConfig{
			TargetPrincipal: cfg.ImpersonateServiceAccount,
			Scopes:          []string{gsheets.SpreadsheetsReadonlyScope},
		}, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating impersonated token source: %w", err)
		}
		clientOpts = []option.ClientOption{option.WithTokenSource(ts)}
	}

	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := gsheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating Google Sheets client: %w", err)
	}
	return &GoogleProvider{svc: svc, timeout: cfg.Timeout}, nil
}

// Accepts reports whether location names a Google spreadsheet.
func (p *GoogleProvider) Accepts(location string) bool {
	_, err := SpreadsheetID(location)
	return err == nil
}

func (p *GoogleProvider) Open(ctx context.Context, location string) (Spreadsheet, error) {
	id, err := SpreadsheetID(location)
	if err != nil {
		return nil, err
	}
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	ss, err := p.svc.Spreadsheets.Get(id).
		Fields("spreadsheetId", "sheets.properties(sheetId,title,index)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, external("open", location, err)
	}

	titles := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties == nil {
			continue
		}
		titles = append(titles, s.Properties.Title)
	}
	return &googleSpreadsheet{provider: p, id: id, titles: titles}, nil
}

func (p *GoogleProvider) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout > 0 {
		return context.WithTimeout(ctx, p.timeout)
	}
	return context.WithCancel(ctx)
}

type googleSpreadsheet struct {
	provider *GoogleProvider
	id       string
	titles   []string
}

func (s *googleSpreadsheet) Worksheet(_ context.Context, index int) (Worksheet, error) {
	if index < 0 || index >= len(s.titles) {
		return nil, fmt.Errorf("%w: spreadsheet %s has %d sheets, wanted sheet %d",
			ErrWorksheetNotFound, s.id, len(s.titles), index+1)
	}
	return &googleWorksheet{provider: s.provider, id: s.id, title: s.titles[index]}, nil
}

type googleWorksheet struct {
	provider *GoogleProvider
	id       string
	title    string
}

func (w *googleWorksheet) Values(ctx context.Context) ([][]string, error) {
	ctx, cancel := w.provider.callContext(ctx)
	defer cancel()

	vr, err := w.provider.svc.Spreadsheets.Values.Get(w.id, quoteSheetTitle(w.title)).
		ValueRenderOption("FORMATTED_VALUE").
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, external("read", w.id, err)
	}
	return rectangle(vr.Values), nil
}

// quoteSheetTitle turns a sheet title into an A1 range covering the sheet.
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// rectangle converts API cells to strings and pads rows to the widest row.
func rectangle(cells [][]any) [][]string {
	width := 0
	for _, r := range cells {
		width = max(width, len(r))
	}
	out := make([][]string, len(cells))
	for i, r := range cells {
		row := make([]string, width)
		for j, cell := range r {
			switch v := cell.(type) {
			case nil:
			case string:
				row[j] = v
			default:
				row[j] = fmt.Sprint(v)
			}
		}
		out[i] = row
	}
	return out
}
