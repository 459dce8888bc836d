package store

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/ctxcore/ctxcore/internal/symbols"
)

// SymbolRecord is a persisted symbols row.
type SymbolRecord struct {
	SymbolID  string
	FileID    string
	Name      string
	Kind      string
	TypeTag   string
	Owner     string
	Signature string
	StartLine int
	EndLine   int
}

// LinkRecord is a persisted links row: either a type relationship
// (extends/implements/includes) or a call site (calls), unified into one
// edge shape since both are "a reference from one name to another" as far
// as graph traversal over this table is concerned.
type LinkRecord struct {
	LinkID   string
	FileID   string
	Kind     string
	FromName string
	ToName   string
	Line     int
}

const linkKindCalls = "calls"

// ReplaceFileSymbols atomically replaces relPath's symbols and links with
// fs's contents, mirroring ReplaceFileArtifacts' delete-then-insert shape.
// relPath must already have a file_state row (written by
// ReplaceFileArtifacts) or this returns an error.
func (s *Store) ReplaceFileSymbols(relPath string, fs *symbols.FileSymbols) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin symbols transaction: %w", err)
	}
	defer tx.Rollback()

	var fileID string
	err = sq.Select("file_id").From("file_state").Where(sq.Eq{"rel_path": relPath}).RunWith(tx).QueryRow().Scan(&fileID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("replace symbols for %s: no file_state row", relPath)
	}
	if err != nil {
		return fmt.Errorf("lookup file %s: %w", relPath, err)
	}

	if _, err := sq.Delete("symbols").Where(sq.Eq{"file_id": fileID}).RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("delete stale symbols for %s: %w", relPath, err)
	}
	if _, err := sq.Delete("links").Where(sq.Eq{"file_id": fileID}).RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("delete stale links for %s: %w", relPath, err)
	}

	if fs == nil {
		return tx.Commit()
	}

	for _, sym := range fs.Symbols {
		_, err := sq.Insert("symbols").
			Columns("symbol_id", "file_id", "name", "kind", "type_tag", "owner", "signature", "start_line", "end_line").
			Values(uuid.New().String(), fileID, sym.Name, string(sym.Kind), nullableString(sym.TypeTag), nullableString(sym.Owner), nullableString(sym.Signature), sym.StartLine, sym.EndLine).
			RunWith(tx).Exec()
		if err != nil {
			return fmt.Errorf("insert symbol %s: %w", sym.Name, err)
		}
	}

	for _, rel := range fs.Relationships {
		_, err := sq.Insert("links").
			Columns("link_id", "file_id", "kind", "from_name", "to_name", "line").
			Values(uuid.New().String(), fileID, rel.Kind, rel.From, rel.To, nil).
			RunWith(tx).Exec()
		if err != nil {
			return fmt.Errorf("insert relationship %s->%s: %w", rel.From, rel.To, err)
		}
	}

	for _, call := range fs.Calls {
		_, err := sq.Insert("links").
			Columns("link_id", "file_id", "kind", "from_name", "to_name", "line").
			Values(uuid.New().String(), fileID, linkKindCalls, call.Caller, call.Callee, call.Line).
			RunWith(tx).Exec()
		if err != nil {
			return fmt.Errorf("insert call %s->%s: %w", call.Caller, call.Callee, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit symbols transaction: %w", err)
	}
	return nil
}

// FindSymbolsByName returns every persisted symbol matching name exactly,
// across all files, including soft-deleted ones. The symbol RetrievalProvider
// does not call it; it resolves names against its in-memory graph.
func (s *Store) FindSymbolsByName(name string) ([]SymbolRecord, error) {
	rows, err := sq.Select("symbol_id", "file_id", "name", "kind", "type_tag", "owner", "signature", "start_line", "end_line").
		From("symbols").
		Where(sq.Eq{"name": name}).
		RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("find symbols named %s: %w", name, err)
	}
	defer rows.Close()

	var out []SymbolRecord
	for rows.Next() {
		r, err := scanSymbolRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListAllSymbols returns every persisted symbol across all active files, the
// bulk load the symbol RetrievalProvider uses to build its in-memory
// traversal graph, mirroring the teacher's GraphReader.ReadTypes/
// ReadFunctions bulk-load shape.
func (s *Store) ListAllSymbols() ([]SymbolRecord, error) {
	rows, err := sq.Select("sy.symbol_id", "sy.file_id", "sy.name", "sy.kind", "sy.type_tag", "sy.owner", "sy.signature", "sy.start_line", "sy.end_line").
		From("symbols sy").
		Join("file_state f ON f.file_id = sy.file_id").
		Where(sq.Eq{"f.is_deleted": false}).
		RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("list all symbols: %w", err)
	}
	defer rows.Close()

	var out []SymbolRecord
	for rows.Next() {
		r, err := scanSymbolRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListAllLinks returns every persisted link across all active files, the
// bulk load the symbol RetrievalProvider uses to build its in-memory
// traversal graph, mirroring the teacher's GraphReader.ReadCallGraph/
// ReadTypeRelationships bulk-load shape.
func (s *Store) ListAllLinks() ([]LinkRecord, error) {
	rows, err := sq.Select("l.link_id", "l.file_id", "l.kind", "l.from_name", "l.to_name", "l.line").
		From("links l").
		Join("file_state f ON f.file_id = l.file_id").
		Where(sq.Eq{"f.is_deleted": false}).
		RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("list all links: %w", err)
	}
	defer rows.Close()

	var out []LinkRecord
	for rows.Next() {
		var l LinkRecord
		var line sql.NullInt64
		if err := rows.Scan(&l.LinkID, &l.FileID, &l.Kind, &l.FromName, &l.ToName, &line); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		l.Line = int(line.Int64)
		out = append(out, l)
	}
	return out, rows.Err()
}

// LinksFrom returns every link originating at name, the outward one-hop
// expansion (callees of a function, supertypes of a type). Neither the
// symbol RetrievalProvider nor C9 neighbor expansion calls it.
func (s *Store) LinksFrom(name string) ([]LinkRecord, error) {
	return s.queryLinks(sq.Eq{"from_name": name})
}

// LinksTo returns every link terminating at name, the inward one-hop
// expansion (callers of a function, implementers of an interface).
func (s *Store) LinksTo(name string) ([]LinkRecord, error) {
	return s.queryLinks(sq.Eq{"to_name": name})
}

func (s *Store) queryLinks(pred sq.Eq) ([]LinkRecord, error) {
	rows, err := sq.Select("link_id", "file_id", "kind", "from_name", "to_name", "line").
		From("links").
		Where(pred).
		RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	var out []LinkRecord
	for rows.Next() {
		var l LinkRecord
		var line sql.NullInt64
		if err := rows.Scan(&l.LinkID, &l.FileID, &l.Kind, &l.FromName, &l.ToName, &line); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		l.Line = int(line.Int64)
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanSymbolRecord(rows *sql.Rows) (SymbolRecord, error) {
	var r SymbolRecord
	var typeTag, owner, signature sql.NullString
	if err := rows.Scan(&r.SymbolID, &r.FileID, &r.Name, &r.Kind, &typeTag, &owner, &signature, &r.StartLine, &r.EndLine); err != nil {
		return r, fmt.Errorf("scan symbol: %w", err)
	}
	r.TypeTag, r.Owner, r.Signature = typeTag.String, owner.String, signature.String
	return r, nil
}
