package storage

import "database/sql"

func (s *Store) DB() *sql.DB { return s.db }

var Rebind = (*Store).rebind
