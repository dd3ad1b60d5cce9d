package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const EvidenceTableSchema = `
	CREATE TABLE IF NOT EXISTS evidence_records (
		id VARCHAR NOT NULL,
		dataset_snapshot_id VARCHAR NOT NULL,
		component_id VARCHAR NOT NULL,
		kind VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL,
		payload JSON,
		PRIMARY KEY (dataset_snapshot_id, id)
	);
`

const FindingTableSchema = `
	CREATE TABLE IF NOT EXISTS finding_records (
		id VARCHAR NOT NULL,
		dataset_snapshot_id VARCHAR NOT NULL,
		source_record_id VARCHAR NOT NULL,
		kind VARCHAR NOT NULL,
		payload JSON,
		PRIMARY KEY (dataset_snapshot_id, id)
	);
`

const LinkTableSchema = `
	CREATE TABLE IF NOT EXISTS finding_evidence_links (
		id VARCHAR NOT NULL,
		dataset_snapshot_id VARCHAR NOT NULL,
		finding_id VARCHAR NOT NULL,
		evidence_id VARCHAR NOT NULL,
		PRIMARY KEY (dataset_snapshot_id, id)
	);
`

var bootQueries = []string{
	EvidenceTableSchema,
	FindingTableSchema,
	LinkTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		bootQueries := append([]string{}, bootQueries...)

		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
