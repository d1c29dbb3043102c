// Package sitemap builds the can/rack/miner layout from the two CSV exports
// used to describe a site.
//
// The layout file lists cans ("group" records) and the racks inside them:
//
//	group_name,type,name,row,column,rack_width,rack_height
//	,group,C01,1,0,,
//	C01,rack,C01-R01,0,1,4,6
//
// The sitemap file places each miner on a rack shelf:
//
//	pickaxe_id,miner_ip,miner_port,rack,row,index
//	px-1,10.0.1.23,4028,C01-R01,0,2
//
// Shelves are dense: miners are sorted by index and appended, so gaps in the
// index sequence do not leave empty slots.
package sitemap

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/powerhive/rackview/internal/netutil"
	"github.com/powerhive/rackview/pkg/miner"
)

var (
	// ErrBadRecord indicates a record with a missing or unparseable column.
	ErrBadRecord = errors.New("bad record")

	// ErrDuplicateName indicates two cans or two racks with the same name.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnknownGroup indicates a rack whose group was not declared before it.
	ErrUnknownGroup = errors.New("unknown group")

	// ErrUnknownRack indicates a miner placed on a rack not in the layout.
	ErrUnknownRack = errors.New("unknown rack")

	// ErrRowOutOfRange indicates a miner on a shelf beyond the rack height.
	ErrRowOutOfRange = errors.New("row out of range")

	// ErrDuplicateSlot indicates two miners at the same rack, row and index.
	ErrDuplicateSlot = errors.New("duplicate slot")
)

// RecordError locates a failure in an input file.
type RecordError struct {
	File string
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

const (
	layoutName  = "layout"
	sitemapName = "sitemap"
)

var (
	layoutColumns  = []string{"group_name", "type", "name", "row", "column", "rack_width", "rack_height"}
	sitemapColumns = []string{"pickaxe_id", "miner_ip", "miner_port", "rack", "row", "index"}
)

// ImportFiles reads the layout and sitemap files from disk.
func ImportFiles(layoutPath, sitemapPath string, logger *slog.Logger) ([]miner.Can, error) {
	lf, err := os.Open(layoutPath)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer lf.Close()

	sf, err := os.Open(sitemapPath)
	if err != nil {
		return nil, fmt.Errorf("open sitemap: %w", err)
	}
	defer sf.Close()

	logger = orDiscard(logger)
	logger.Info("importing sitemap", "layout", layoutPath, "sitemap", sitemapPath)
	return Import(lf, sf, logger)
}

type rackEntry struct {
	can    int
	column int
	rack   miner.Rack
}

type placement struct {
	line  int
	ip    string
	row   int
	index int
}

// Import builds the site from layout and sitemap CSV data. Cans keep their
// file order, racks are ordered by column and miners by row and index.
func Import(layout, sitemap io.Reader, logger *slog.Logger) ([]miner.Can, error) {
	logger = orDiscard(logger)

	var cans []miner.Can
	canIdx := make(map[string]int)
	var racks []*rackEntry
	rackIdx := make(map[string]*rackEntry)

	err := readCSV(layout, layoutName, layoutColumns, func(line int, rec record) error {
		name := rec.get("name")
		if name == "" {
			return fmt.Errorf("%w: empty name", ErrBadRecord)
		}
		switch strings.ToLower(rec.get("type")) {
		case "group":
			num, err := rec.atoi("row")
			if err != nil {
				return err
			}
			if _, dup := canIdx[name]; dup {
				return fmt.Errorf("%w: can %q", ErrDuplicateName, name)
			}
			logger.Debug("group", "name", name)
			canIdx[name] = len(cans)
			cans = append(cans, miner.Can{ID: int64(len(cans) + 1), Name: name, Num: num})

		case "rack":
			group := rec.get("group_name")
			ci, ok := canIdx[group]
			if !ok {
				return fmt.Errorf("%w: %q for rack %q", ErrUnknownGroup, group, name)
			}
			if _, dup := rackIdx[name]; dup {
				return fmt.Errorf("%w: rack %q", ErrDuplicateName, name)
			}
			column, err := rec.atoi("column")
			if err != nil {
				return err
			}
			width, err := rec.atoi("rack_width")
			if err != nil {
				return err
			}
			height, err := rec.atoi("rack_height")
			if err != nil {
				return err
			}
			if width < 0 || height <= 0 {
				return fmt.Errorf("%w: rack %q has size %dx%d", ErrBadRecord, name, width, height)
			}
			logger.Debug("rack", "name", name, "group", group)
			rows := make([][]miner.Miner, height)
			for i := range rows {
				rows[i] = []miner.Miner{}
			}
			e := &rackEntry{
				can:    ci,
				column: column,
				rack: miner.Rack{
					ID:     int64(len(racks) + 1),
					Name:   name,
					Width:  width,
					Height: miner.Some(height),
					Miners: rows,
				},
			}
			racks = append(racks, e)
			rackIdx[name] = e

		default:
			return fmt.Errorf("%w: type %q", ErrBadRecord, rec.get("type"))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	byRack := make(map[*rackEntry][]placement)
	seenIP := make(map[string]int)
	err = readCSV(sitemap, sitemapName, sitemapColumns, func(line int, rec record) error {
		ip := rec.get("miner_ip")
		if !netutil.IsValidIP(ip) {
			return fmt.Errorf("%w: %q", netutil.ErrInvalidIP, ip)
		}
		if prev, dup := seenIP[ip]; dup {
			return fmt.Errorf("%w: %s (first on line %d)", miner.ErrDuplicateIP, ip, prev)
		}
		if port, err := rec.atoi("miner_port"); err != nil {
			return err
		} else if port < 0 || port > 65535 {
			return fmt.Errorf("%w: miner_port %d", ErrBadRecord, port)
		}
		rackName := rec.get("rack")
		e, ok := rackIdx[rackName]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownRack, rackName)
		}
		row, err := rec.atoi("row")
		if err != nil {
			return err
		}
		index, err := rec.atoi("index")
		if err != nil {
			return err
		}
		if h := len(e.rack.Miners); row < 0 || row >= h {
			return fmt.Errorf("%w: row %d on rack %q with height %d", ErrRowOutOfRange, row, rackName, h)
		}
		for _, p := range byRack[e] {
			if p.row == row && p.index == index {
				return fmt.Errorf("%w: rack %q row %d index %d (line %d)", ErrDuplicateSlot, rackName, row, index, p.line)
			}
		}
		logger.Debug("miner", "ip", ip, "rack", rackName, "row", row, "index", index)
		seenIP[ip] = line
		byRack[e] = append(byRack[e], placement{line: line, ip: ip, row: row, index: index})
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, e := range racks {
		ps := byRack[e]
		slices.SortStableFunc(ps, func(a, b placement) int {
			return cmp.Or(cmp.Compare(a.row, b.row), cmp.Compare(a.index, b.index))
		})
		for _, p := range ps {
			e.rack.Place(p.row, miner.Miner{IP: p.ip})
		}
	}

	slices.SortStableFunc(racks, func(a, b *rackEntry) int {
		return cmp.Compare(a.column, b.column)
	})
	for _, e := range racks {
		cans[e.can].Racks = append(cans[e.can].Racks, e.rack)
	}
	for i := range cans {
		if cans[i].Racks == nil {
			cans[i].Racks = []miner.Rack{}
		}
	}

	logger.Info("sitemap imported", "cans", len(cans), "racks", len(racks), "miners", len(seenIP))
	return cans, nil
}

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

type record struct {
	cols   map[string]int
	fields []string
}

func (r record) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) atoi(col string) (int, error) {
	v := r.get(col)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrBadRecord, col, v)
	}
	return n, nil
}

// readCSV reads a headed CSV file and calls fn per record. Columns are
// matched by header name so extra columns and column order do not matter.
func readCSV(r io.Reader, file string, required []string, fn func(line int, rec record) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &RecordError{File: file, Line: 1, Err: fmt.Errorf("%w: empty file", ErrBadRecord)}
		}
		return &RecordError{File: file, Line: 1, Err: err}
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return &RecordError{File: file, Line: 1, Err: fmt.Errorf("%w: missing column %q", ErrBadRecord, c)}
		}
	}

	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return &RecordError{File: file, Line: pe.Line, Err: pe.Err}
			}
			return &RecordError{File: file, Err: err}
		}
		line, _ := cr.FieldPos(0)
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		if err := fn(line, record{cols: cols, fields: fields}); err != nil {
			return &RecordError{File: file, Line: line, Err: err}
		}
	}
}
