package output

import (
	"fmt"
	"sort"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
	"golang.org/x/exp/maps"
)

// Bank describes which raw and digitized variables a detector type produces.
// Writers treat it as an opaque schema descriptor: only the key lists are
// consulted, to know which variables to expect and label.
type Bank struct {
	Name    string
	RawVars []string
	DgtVars []string
}

// BankSet indexes banks by detector name. Keys are case sensitive.
type BankSet map[string]Bank

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type bankVariableEntry struct {
	Detector string `db:"Detector"`
	Variable string `db:"Variable"`
	Category string `db:"Category"`
}

// GetBanksFromDB loads the per-run variable schema for every detector.
func GetBanksFromDB(db *sqlx.DB, runNumber int) (BankSet, error) {
	query := "SELECT Detector, Variable, Category FROM BankVariables WHERE MinRun <= %d and MaxRun >= %d ORDER BY Detector, Variable"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		logger.Info("Reading bank schema from database", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}
	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}

	banks := BankSet{}
	for rows.Next() {
		result := bankVariableEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		bank := banks[result.Detector]
		bank.Name = result.Detector
		switch result.Category {
		case "raw":
			bank.RawVars = append(bank.RawVars, result.Variable)
		case "dgt":
			bank.DgtVars = append(bank.DgtVars, result.Variable)
		}
		banks[result.Detector] = bank
	}
	return banks, nil
}

// BankFromHits builds a schema directly from hit content, for no-DB mode.
// Variable order is alphabetical so the output is reproducible.
func BankFromHits(detector string, hits []HitRecord) Bank {
	rawSeen := map[string]bool{}
	dgtSeen := map[string]bool{}
	for i := range hits {
		for name := range hits[i].Raws {
			rawSeen[name] = true
		}
		for name := range hits[i].Dgtz {
			dgtSeen[name] = true
		}
	}
	bank := Bank{
		Name:    detector,
		RawVars: maps.Keys(rawSeen),
		DgtVars: maps.Keys(dgtSeen),
	}
	sort.Strings(bank.RawVars)
	sort.Strings(bank.DgtVars)
	return bank
}
