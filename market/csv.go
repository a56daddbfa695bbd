package market

import (
	"encoding/csv"
	"io"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

// contractsSectionHeader and detailsSectionHeader mark the two sections
// the dated per-player CSV exports carry, per spec.md §4.5.
const (
	contractsSectionHeader = "CONTRACTS"
	detailsSectionHeader   = "CONTRACT DETAILS - YEAR BY YEAR"
)

// ContractRow is one raw row from the "CONTRACTS" CSV section.
type ContractRow map[string]string

// ContractDetailRow is one raw row from the "CONTRACT DETAILS" CSV section.
type ContractDetailRow map[string]string

// ContractCSVResult bundles the raw parsed rows with a denormalized
// current-season summary, per spec.md §4.5.
type ContractCSVResult struct {
	Contracts      []ContractRow
	Details        []ContractDetailRow
	CurrentCapHit  float64
	CurrentAAV     float64
	HasNTC         bool
	HasNMC         bool
	YearsRemaining int
}

// datedFileRe matches a trailing "_YYYY-MM-DD.csv" on contract export
// filenames, used to pick the most recently dated file.
var datedFileRe = regexp.MustCompile(`_(\d{4}-\d{2}-\d{2})\.csv$`)

// ReadPlayerContractCSV locates the most recently dated contract CSV for
// playerID under root, parses the CONTRACTS and CONTRACT DETAILS
// sections, and returns both raw rows and a denormalized summary.
func ReadPlayerContractCSV(dir fs.FS, root, playerID string) (*ContractCSVResult, *apperr.Error) {
	path, err := mostRecentContractFile(dir, root, playerID)
	if err != nil {
		return nil, err
	}

	f, openErr := dir.Open(path)
	if openErr != nil {
		return nil, apperr.Wrap(openErr, apperr.NotFound, "market.ReadPlayerContractCSV")
	}
	defer f.Close()

	result, parseErr := parseContractCSV(f)
	if parseErr != nil {
		return nil, apperr.Wrap(parseErr, apperr.Internal, "market.ReadPlayerContractCSV.parse")
	}
	return result, nil
}

func mostRecentContractFile(dirFS fs.FS, root, playerID string) (string, *apperr.Error) {
	entries, err := fs.ReadDir(dirFS, root)
	if err != nil {
		return "", apperr.Wrap(err, apperr.NotFound, "market.mostRecentContractFile")
	}

	var candidates []string
	prefix := playerID + "_"
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".csv") {
			candidates = append(candidates, e.Name())
		}
	}
	if len(candidates) == 0 {
		return "", apperr.New(apperr.NotFound, "market.mostRecentContractFile", "no contract CSV found").
			WithCode("player_not_found")
	}

	sort.Slice(candidates, func(i, j int) bool {
		di := extractDate(candidates[i])
		dj := extractDate(candidates[j])
		return di.After(dj)
	})
	return filepath.Join(root, candidates[0]), nil
}

func extractDate(filename string) time.Time {
	m := datedFileRe.FindStringSubmatch(filename)
	if len(m) != 2 {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseContractCSV splits a dated export into its two labeled sections
// (each introduced by a single-cell header row) and parses each as its
// own header+rows table.
func parseContractCSV(r io.Reader) (*ContractCSVResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	result := &ContractCSVResult{}
	var section string
	var header []string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 0 {
			continue
		}
		label := strings.TrimSpace(record[0])
		if label == contractsSectionHeader || label == detailsSectionHeader {
			section = label
			header = nil
			continue
		}
		if header == nil {
			header = record
			continue
		}

		row := map[string]string{}
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}

		switch section {
		case contractsSectionHeader:
			result.Contracts = append(result.Contracts, ContractRow(row))
		case detailsSectionHeader:
			result.Details = append(result.Details, ContractDetailRow(row))
		}
	}

	denormalize(result)
	return result, nil
}

// denormalize computes the current-season cap hit, AAV, NTC/NMC flags
// (derived from the clause string), and years remaining counted from
// the current-season start, per spec.md §4.5.
func denormalize(result *ContractCSVResult) {
	if len(result.Details) == 0 {
		return
	}

	currentYear := time.Now().Year()
	var best ContractDetailRow
	bestYear := -1
	for _, row := range result.Details {
		seasonStart := parseSeasonStartYear(row["Season"])
		if seasonStart <= currentYear && seasonStart > bestYear {
			bestYear = seasonStart
			best = row
		}
	}
	if best == nil {
		best = result.Details[len(result.Details)-1]
	}

	result.CurrentCapHit = parseMoney(best["Cap Hit"])
	result.CurrentAAV = parseMoney(best["AAV"])

	clause := strings.ToUpper(best["Clause"])
	result.HasNTC = strings.Contains(clause, "NTC")
	result.HasNMC = strings.Contains(clause, "NMC")

	remaining := 0
	for _, row := range result.Details {
		seasonStart := parseSeasonStartYear(row["Season"])
		if seasonStart >= currentYear {
			remaining++
		}
	}
	result.YearsRemaining = remaining
}

func parseSeasonStartYear(season string) int {
	parts := strings.SplitN(season, "-", 2)
	if len(parts) == 0 {
		return 0
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	return y
}

func parseMoney(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
