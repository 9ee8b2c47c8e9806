package parser

import (
	"strconv"
	"strings"

	"github.com/mockcql/mockcql/cqlerr"
	"github.com/mockcql/mockcql/internal/record"
)

// Parse parses a single CQL statement. keyspace is the session's current
// keyspace; it qualifies bare table and type names and may be empty.
//
// Keywords are matched case-insensitively; identifiers and string literals
// keep their spelling. A trailing ';' is accepted and ignored.
func Parse(cql string, keyspace string) (Statement, error) {
	s := strings.TrimSpace(cql)
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	if s == "" {
		return nil, cqlerr.Syntaxf("empty statement")
	}

	if rest, ok := cutKeywords(s, "CREATE", "KEYSPACE"); ok {
		return parseCreateKeyspace(rest)
	}
	if rest, ok := cutKeywords(s, "DROP", "KEYSPACE"); ok {
		return parseDropKeyspace(rest)
	}
	if rest, ok := cutKeywords(s, "CREATE", "TABLE"); ok {
		return parseCreateTable(rest, keyspace)
	}
	if rest, ok := cutKeywords(s, "CREATE", "TYPE"); ok {
		return parseCreateType(rest, keyspace)
	}
	if rest, ok := cutKeywords(s, "ALTER", "TABLE"); ok {
		return parseAlterTable(rest, keyspace)
	}
	if rest, ok := cutKeywords(s, "DROP", "TABLE"); ok {
		return parseDropTable(rest, keyspace)
	}
	if rest, ok := cutKeywords(s, "TRUNCATE"); ok {
		return parseTruncate(rest, keyspace)
	}
	if rest, ok := cutKeywords(s, "INSERT", "INTO"); ok {
		return parseInsert(rest, keyspace)
	}
	if rest, ok := cutKeywords(s, "SELECT"); ok {
		return parseSelect(rest, keyspace)
	}
	if rest, ok := cutKeywords(s, "UPDATE"); ok {
		return parseUpdate(rest, keyspace)
	}
	if rest, ok := cutKeywords(s, "DELETE"); ok {
		return parseDelete(rest, keyspace)
	}
	if rest, ok := cutKeywords(s, "BEGIN"); ok {
		return parseBatch(rest, keyspace)
	}
	if rest, ok := cutKeywords(s, "USE"); ok {
		name, err := parseIdent(rest)
		if err != nil {
			return nil, err
		}
		return &UseKeyspaceStmt{Name: name}, nil
	}

	// Statement heads we recognize but do not implement.
	for _, head := range [][]string{
		{"CREATE", "INDEX"}, {"CREATE", "MATERIALIZED", "VIEW"},
		{"CREATE", "FUNCTION"}, {"CREATE", "AGGREGATE"},
		{"ALTER", "KEYSPACE"}, {"ALTER", "TYPE"},
		{"DROP", "TYPE"}, {"DROP", "INDEX"},
		{"GRANT"}, {"REVOKE"}, {"DESCRIBE"},
	} {
		if _, ok := cutKeywords(s, head...); ok {
			return nil, cqlerr.Unsupportedf("%s statements are not supported", strings.Join(head, " "))
		}
	}
	return nil, cqlerr.Syntaxf("unrecognized statement: %q", cql)
}

// parseTableName parses "[keyspace.]name", qualifying bare names with the
// session keyspace hint (which may be empty).
func parseTableName(tok string, keyspace string) (TableName, error) {
	tok = strings.TrimSpace(tok)
	if ks, name, ok := strings.Cut(tok, "."); ok {
		ksIdent, err := parseIdent(ks)
		if err != nil {
			return TableName{}, err
		}
		nameIdent, err := parseIdent(name)
		if err != nil {
			return TableName{}, err
		}
		return TableName{Keyspace: ksIdent, Name: nameIdent}, nil
	}
	name, err := parseIdent(tok)
	if err != nil {
		return TableName{}, err
	}
	return TableName{Keyspace: keyspace, Name: name}, nil
}

// matchParen consumes a balanced parenthesized group from the front of s and
// returns the inner text plus the remainder after the closing paren.
func matchParen(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] != '(' {
		return "", "", cqlerr.Syntaxf("expected '(' in %q", s)
	}
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return s[1:i], strings.TrimSpace(s[i+1:]), nil
			}
		}
	}
	return "", "", cqlerr.Syntaxf("unbalanced parentheses in %q", s)
}

// ----- DDL -----

func parseCreateKeyspace(rest string) (Statement, error) {
	stmt := &CreateKeyspaceStmt{DurableWrites: true}
	if r, ok := cutKeywords(rest, "IF", "NOT", "EXISTS"); ok {
		stmt.IfNotExists = true
		rest = r
	}

	namePart, optsPart, ok := splitKeyword(rest, "WITH")
	if !ok {
		return nil, cqlerr.Syntaxf("CREATE KEYSPACE requires WITH REPLICATION = {...}")
	}
	name, err := parseIdent(namePart)
	if err != nil {
		return nil, err
	}
	stmt.Name = name

	for _, opt := range splitConjunction(optsPart) {
		key, val, found := strings.Cut(opt, "=")
		if !found {
			return nil, cqlerr.Syntaxf("invalid keyspace option %q", opt)
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "replication":
			repl, err := parseReplicationMap(strings.TrimSpace(val))
			if err != nil {
				return nil, err
			}
			stmt.Replication = repl
		case "durable_writes":
			switch strings.ToLower(strings.TrimSpace(val)) {
			case "true":
				stmt.DurableWrites = true
			case "false":
				stmt.DurableWrites = false
			default:
				return nil, cqlerr.Syntaxf("invalid DURABLE_WRITES value %q", strings.TrimSpace(val))
			}
		default:
			// Other WITH options (comments, caching, ...) are accepted and
			// ignored, as the real engine's knobs have no effect here.
		}
	}
	if stmt.Replication == nil {
		return nil, cqlerr.Syntaxf("CREATE KEYSPACE requires WITH REPLICATION = {...}")
	}
	return stmt, nil
}

func parseReplicationMap(raw string) (map[string]string, error) {
	lit, err := parseLiteral(raw)
	if err != nil {
		return nil, err
	}
	if lit.Kind != record.LitMap {
		return nil, cqlerr.Syntaxf("replication must be a map literal, got %q", raw)
	}
	repl := make(map[string]string, len(lit.Entries))
	for _, ent := range lit.Entries {
		if len(ent.Key.Elems) > 0 || len(ent.Val.Elems) > 0 {
			return nil, cqlerr.Syntaxf("replication map values must be scalars")
		}
		repl[ent.Key.Text] = ent.Val.Text
	}
	return repl, nil
}

func parseDropKeyspace(rest string) (Statement, error) {
	stmt := &DropKeyspaceStmt{}
	if r, ok := cutKeywords(rest, "IF", "EXISTS"); ok {
		stmt.IfExists = true
		rest = r
	}
	name, err := parseIdent(rest)
	if err != nil {
		return nil, err
	}
	stmt.Name = name
	return stmt, nil
}

func parseCreateTable(rest string, keyspace string) (Statement, error) {
	stmt := &CreateTableStmt{}
	if r, ok := cutKeywords(rest, "IF", "NOT", "EXISTS"); ok {
		stmt.IfNotExists = true
		rest = r
	}

	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return nil, cqlerr.Syntaxf("CREATE TABLE requires a column definition list")
	}
	table, err := parseTableName(rest[:open], keyspace)
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	inner, tail, err := matchParen(rest[open:])
	if err != nil {
		return nil, err
	}
	if tail != "" {
		opts, ok := cutKeywords(tail, "WITH")
		if !ok {
			return nil, cqlerr.Syntaxf("unexpected trailing input in CREATE TABLE: %q", tail)
		}
		if err := validateTableOptions(opts); err != nil {
			return nil, err
		}
	}

	var inlineKeys []string
	for _, def := range splitTopLevel(inner) {
		if pkInner, ok := cutKeywords(def, "PRIMARY", "KEY"); ok {
			pkDef, after, err := matchParen(pkInner)
			if err != nil {
				return nil, err
			}
			if after != "" {
				return nil, cqlerr.Syntaxf("unexpected input after PRIMARY KEY definition: %q", after)
			}
			partition, clustering, err := parsePrimaryKeyDef(pkDef)
			if err != nil {
				return nil, err
			}
			stmt.PartitionKey = partition
			stmt.ClusteringKey = clustering
			continue
		}

		col, inlinePK, err := parseColumnDef(def)
		if err != nil {
			return nil, err
		}
		if inlinePK {
			inlineKeys = append(inlineKeys, col.Name)
		}
		stmt.Columns = append(stmt.Columns, col)
	}

	if len(stmt.PartitionKey) == 0 {
		stmt.PartitionKey = inlineKeys
	}
	if len(stmt.Columns) == 0 {
		return nil, cqlerr.Syntaxf("CREATE TABLE requires at least one column")
	}
	return stmt, nil
}

// validateTableOptions checks the shape of a CREATE TABLE WITH clause. The
// options themselves have no effect here, but each AND-joined term must be
// CLUSTERING ORDER BY (...), COMPACT STORAGE, or option = value.
func validateTableOptions(opts string) error {
	if strings.TrimSpace(opts) == "" {
		return cqlerr.Syntaxf("empty WITH clause in CREATE TABLE")
	}
	for _, opt := range splitConjunction(opts) {
		if rest, ok := cutKeywords(opt, "CLUSTERING", "ORDER", "BY"); ok {
			if _, after, err := matchParen(rest); err != nil || after != "" {
				return cqlerr.Syntaxf("invalid CLUSTERING ORDER BY option %q", opt)
			}
			continue
		}
		if rest, ok := cutKeywords(opt, "COMPACT", "STORAGE"); ok && rest == "" {
			continue
		}
		key, val, found := strings.Cut(opt, "=")
		if !found || strings.TrimSpace(val) == "" {
			return cqlerr.Syntaxf("invalid table option %q", opt)
		}
		if _, err := parseIdent(key); err != nil {
			return cqlerr.Syntaxf("invalid table option name %q", strings.TrimSpace(key))
		}
	}
	return nil
}

// parseColumnDef parses "name type [PRIMARY KEY]".
func parseColumnDef(def string) (ColumnDef, bool, error) {
	def = strings.TrimSpace(def)
	name, typeStr, found := cutToken(def)
	if !found {
		return ColumnDef{}, false, cqlerr.Syntaxf("invalid column definition %q", def)
	}
	colName, err := parseIdent(name)
	if err != nil {
		return ColumnDef{}, false, err
	}

	inlinePK := false
	if idx := indexKeyword(typeStr, "PRIMARY", "KEY"); idx >= 0 {
		after, _ := cutKeywords(typeStr[idx:], "PRIMARY", "KEY")
		if after != "" {
			return ColumnDef{}, false, cqlerr.Syntaxf("unexpected input after PRIMARY KEY in %q", def)
		}
		inlinePK = true
		typeStr = strings.TrimSpace(typeStr[:idx])
	}
	if idx := indexKeyword(typeStr, "STATIC"); idx >= 0 {
		return ColumnDef{}, false, cqlerr.Unsupportedf("STATIC columns are not supported")
	}

	t, err := record.ParseTypeName(typeStr)
	if err != nil {
		return ColumnDef{}, false, err
	}
	return ColumnDef{Name: colName, Type: t}, inlinePK, nil
}

// cutToken splits off the first whitespace-delimited token.
func cutToken(s string) (string, string, bool) {
	s = strings.TrimSpace(s)
	idx := strings.IndexAny(s, " \t\r\n")
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], strings.TrimSpace(s[idx:]), true
}

// parsePrimaryKeyDef parses "(p1, p2), c1, c2" or "p, c1" into partition and
// clustering column lists.
func parsePrimaryKeyDef(inner string) ([]string, []string, error) {
	comps := splitTopLevel(inner)
	if len(comps) == 0 {
		return nil, nil, cqlerr.Syntaxf("empty PRIMARY KEY definition")
	}

	var partition, clustering []string
	first := strings.TrimSpace(comps[0])
	if strings.HasPrefix(first, "(") {
		pInner, after, err := matchParen(first)
		if err != nil {
			return nil, nil, err
		}
		if after != "" {
			return nil, nil, cqlerr.Syntaxf("invalid composite partition key %q", first)
		}
		for _, p := range splitTopLevel(pInner) {
			id, err := parseIdent(p)
			if err != nil {
				return nil, nil, err
			}
			partition = append(partition, id)
		}
	} else {
		id, err := parseIdent(first)
		if err != nil {
			return nil, nil, err
		}
		partition = []string{id}
	}

	for _, c := range comps[1:] {
		id, err := parseIdent(c)
		if err != nil {
			return nil, nil, err
		}
		clustering = append(clustering, id)
	}
	return partition, clustering, nil
}

func parseCreateType(rest string, keyspace string) (Statement, error) {
	stmt := &CreateTypeStmt{}
	if r, ok := cutKeywords(rest, "IF", "NOT", "EXISTS"); ok {
		stmt.IfNotExists = true
		rest = r
	}

	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return nil, cqlerr.Syntaxf("CREATE TYPE requires a field definition list")
	}
	name, err := parseTableName(rest[:open], keyspace)
	if err != nil {
		return nil, err
	}
	stmt.Type = name

	inner, tail, err := matchParen(rest[open:])
	if err != nil {
		return nil, err
	}
	if tail != "" {
		return nil, cqlerr.Syntaxf("unexpected trailing input in CREATE TYPE: %q", tail)
	}

	for _, def := range splitTopLevel(inner) {
		field, inlinePK, err := parseColumnDef(def)
		if err != nil {
			return nil, err
		}
		if inlinePK {
			return nil, cqlerr.Syntaxf("PRIMARY KEY is not valid in CREATE TYPE")
		}
		stmt.Fields = append(stmt.Fields, field)
	}
	if len(stmt.Fields) == 0 {
		return nil, cqlerr.Syntaxf("CREATE TYPE requires at least one field")
	}
	return stmt, nil
}

func parseAlterTable(rest string, keyspace string) (Statement, error) {
	if idx := indexKeyword(rest, "ADD"); idx >= 0 {
		table, err := parseTableName(rest[:idx], keyspace)
		if err != nil {
			return nil, err
		}
		defStr, _ := cutKeywords(rest[idx:], "ADD")
		col, inlinePK, err := parseColumnDef(defStr)
		if err != nil {
			return nil, err
		}
		if inlinePK {
			return nil, cqlerr.Syntaxf("added columns cannot be part of the primary key")
		}
		return &AlterTableStmt{Table: table, AddColumn: col}, nil
	}
	for _, kw := range []string{"DROP", "RENAME", "ALTER", "WITH"} {
		if indexKeyword(rest, kw) >= 0 {
			return nil, cqlerr.Unsupportedf("ALTER TABLE %s is not supported", kw)
		}
	}
	return nil, cqlerr.Syntaxf("invalid ALTER TABLE statement")
}

func parseDropTable(rest string, keyspace string) (Statement, error) {
	stmt := &DropTableStmt{}
	if r, ok := cutKeywords(rest, "IF", "EXISTS"); ok {
		stmt.IfExists = true
		rest = r
	}
	table, err := parseTableName(rest, keyspace)
	if err != nil {
		return nil, err
	}
	stmt.Table = table
	return stmt, nil
}

func parseTruncate(rest string, keyspace string) (Statement, error) {
	if r, ok := cutKeywords(rest, "TABLE"); ok {
		rest = r
	}
	table, err := parseTableName(rest, keyspace)
	if err != nil {
		return nil, err
	}
	return &TruncateTableStmt{Table: table}, nil
}

// ----- DML -----

func parseInsert(rest string, keyspace string) (Statement, error) {
	left, right, ok := splitKeyword(rest, "VALUES")
	if !ok {
		return nil, cqlerr.Syntaxf("INSERT requires a VALUES clause")
	}

	open := strings.IndexByte(left, '(')
	if open < 0 {
		return nil, cqlerr.Syntaxf("INSERT requires a column list")
	}
	table, err := parseTableName(left[:open], keyspace)
	if err != nil {
		return nil, err
	}
	colsInner, colsTail, err := matchParen(left[open:])
	if err != nil {
		return nil, err
	}
	if colsTail != "" {
		return nil, cqlerr.Syntaxf("unexpected input after INSERT column list: %q", colsTail)
	}

	var columns []string
	for _, c := range splitTopLevel(colsInner) {
		id, err := parseIdent(c)
		if err != nil {
			return nil, err
		}
		columns = append(columns, id)
	}
	if len(columns) == 0 {
		return nil, cqlerr.Syntaxf("INSERT requires at least one column")
	}

	valsInner, tail, err := matchParen(right)
	if err != nil {
		return nil, err
	}
	if tail != "" {
		if _, ok := cutKeywords(tail, "IF"); ok {
			return nil, cqlerr.Unsupportedf("lightweight transactions (IF ...) are not supported")
		}
		if _, ok := cutKeywords(tail, "USING"); ok {
			return nil, cqlerr.Unsupportedf("USING TTL/TIMESTAMP is not supported")
		}
		return nil, cqlerr.Syntaxf("unexpected trailing input in INSERT: %q", tail)
	}

	values, err := parseLiteralList(valsInner)
	if err != nil {
		return nil, err
	}
	if len(values) != len(columns) {
		return nil, cqlerr.Syntaxf("INSERT has %d columns but %d values", len(columns), len(values))
	}
	return &InsertStmt{Table: table, Columns: columns, Values: values}, nil
}

func parseSelect(rest string, keyspace string) (Statement, error) {
	if _, ok := cutKeywords(rest, "DISTINCT"); ok {
		return nil, cqlerr.Unsupportedf("SELECT DISTINCT is not supported")
	}
	if _, ok := cutKeywords(rest, "JSON"); ok {
		return nil, cqlerr.Unsupportedf("SELECT JSON is not supported")
	}
	if idx := indexKeyword(rest, "GROUP", "BY"); idx >= 0 {
		return nil, cqlerr.Unsupportedf("GROUP BY is not supported")
	}
	if idx := indexKeyword(rest, "ALLOW", "FILTERING"); idx >= 0 {
		after, _ := cutKeywords(rest[idx:], "ALLOW", "FILTERING")
		if after != "" {
			return nil, cqlerr.Syntaxf("unexpected input after ALLOW FILTERING: %q", after)
		}
		// Accepted and ignored: every query here is effectively filtered.
		rest = strings.TrimSpace(rest[:idx])
	}

	colsPart, fromPart, ok := splitKeyword(rest, "FROM")
	if !ok {
		return nil, cqlerr.Syntaxf("SELECT requires a FROM clause")
	}

	stmt := &SelectStmt{}
	if colsPart != "*" {
		for _, c := range splitTopLevel(colsPart) {
			if strings.ContainsAny(c, "()") {
				return nil, cqlerr.Unsupportedf("function calls and aggregates in SELECT are not supported: %q", c)
			}
			if indexKeyword(c, "AS") >= 0 {
				return nil, cqlerr.Unsupportedf("column aliases are not supported: %q", c)
			}
			id, err := parseIdent(c)
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, id)
		}
		if len(stmt.Columns) == 0 {
			return nil, cqlerr.Syntaxf("no columns specified in SELECT")
		}
	}

	whereIdx := indexKeyword(fromPart, "WHERE")
	orderIdx := indexKeyword(fromPart, "ORDER", "BY")
	limitIdx := indexKeyword(fromPart, "LIMIT")

	end := len(fromPart)
	tableEnd := end
	for _, idx := range []int{whereIdx, orderIdx, limitIdx} {
		if idx >= 0 && idx < tableEnd {
			tableEnd = idx
		}
	}
	table, err := parseTableName(fromPart[:tableEnd], keyspace)
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	clauseEnd := func(start int) int {
		e := end
		for _, idx := range []int{whereIdx, orderIdx, limitIdx} {
			if idx > start && idx < e {
				e = idx
			}
		}
		return e
	}

	if whereIdx >= 0 {
		clause, _ := cutKeywords(fromPart[whereIdx:clauseEnd(whereIdx)], "WHERE")
		conds, err := parseWhere(clause)
		if err != nil {
			return nil, err
		}
		if len(conds) == 0 {
			return nil, cqlerr.Syntaxf("empty WHERE clause")
		}
		stmt.Where = conds
	}

	if orderIdx >= 0 {
		clause, _ := cutKeywords(fromPart[orderIdx:clauseEnd(orderIdx)], "ORDER", "BY")
		ob, err := parseOrderBy(clause)
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = ob
	}

	if limitIdx >= 0 {
		clause, _ := cutKeywords(fromPart[limitIdx:clauseEnd(limitIdx)], "LIMIT")
		n, err := strconv.ParseInt(strings.TrimSpace(clause), 10, 64)
		if err != nil {
			return nil, cqlerr.Syntaxf("LIMIT value must be an integer literal, got %q", clause)
		}
		stmt.Limit = &n
	}
	return stmt, nil
}

func parseOrderBy(clause string) (*OrderBy, error) {
	clause = strings.TrimSpace(clause)
	if strings.Contains(clause, ",") {
		return nil, cqlerr.Unsupportedf("ORDER BY on multiple columns is not supported")
	}
	col, dir, _ := cutToken(clause)
	id, err := parseIdent(col)
	if err != nil {
		return nil, err
	}
	ob := &OrderBy{Column: id}
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "", "ASC":
	case "DESC":
		ob.Desc = true
	default:
		return nil, cqlerr.Syntaxf("invalid ORDER BY direction %q", dir)
	}
	return ob, nil
}

func parseUpdate(rest string, keyspace string) (Statement, error) {
	tablePart, afterSet, ok := splitKeyword(rest, "SET")
	if !ok {
		return nil, cqlerr.Syntaxf("UPDATE requires a SET clause")
	}
	if indexKeyword(tablePart, "USING") >= 0 {
		return nil, cqlerr.Unsupportedf("USING TTL/TIMESTAMP is not supported")
	}
	table, err := parseTableName(tablePart, keyspace)
	if err != nil {
		return nil, err
	}

	setPart, wherePart, ok := splitKeyword(afterSet, "WHERE")
	if !ok {
		return nil, cqlerr.Syntaxf("UPDATE requires a WHERE clause")
	}
	if idx := indexKeyword(wherePart, "IF"); idx >= 0 {
		return nil, cqlerr.Unsupportedf("lightweight transactions (IF ...) are not supported")
	}

	var assigns []Assignment
	for _, pair := range splitTopLevel(setPart) {
		opIdx, opLen, op := findCompareOp(pair)
		if opIdx < 0 || op != OpEq {
			return nil, cqlerr.Syntaxf("invalid assignment %q", pair)
		}
		col, err := parseIdent(pair[:opIdx])
		if err != nil {
			return nil, err
		}
		rhs := strings.TrimSpace(pair[opIdx+opLen:])
		if tok, tail, _ := cutToken(rhs); strings.EqualFold(tok, col) && tail != "" {
			return nil, cqlerr.Unsupportedf("counter arithmetic in SET is not supported: %q", pair)
		}
		lit, err := parseLiteral(rhs)
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, Assignment{Column: col, Value: lit})
	}
	if len(assigns) == 0 {
		return nil, cqlerr.Syntaxf("UPDATE requires at least one assignment")
	}

	conds, err := parseWhere(wherePart)
	if err != nil {
		return nil, err
	}
	if len(conds) == 0 {
		return nil, cqlerr.Syntaxf("empty WHERE clause")
	}
	return &UpdateStmt{Table: table, Assignments: assigns, Where: conds}, nil
}

func parseDelete(rest string, keyspace string) (Statement, error) {
	fromIdx := indexKeyword(rest, "FROM")
	if fromIdx < 0 {
		return nil, cqlerr.Syntaxf("DELETE requires a FROM clause")
	}
	if strings.TrimSpace(rest[:fromIdx]) != "" {
		return nil, cqlerr.Unsupportedf("deleting individual columns is not supported")
	}
	afterFrom, _ := cutKeywords(rest[fromIdx:], "FROM")

	tablePart, wherePart, hasWhere := splitKeyword(afterFrom, "WHERE")
	if idx := indexKeyword(afterFrom, "IF"); idx >= 0 {
		return nil, cqlerr.Unsupportedf("lightweight transactions (IF ...) are not supported")
	}
	table, err := parseTableName(tablePart, keyspace)
	if err != nil {
		return nil, err
	}

	stmt := &DeleteStmt{Table: table}
	if hasWhere {
		conds, err := parseWhere(wherePart)
		if err != nil {
			return nil, err
		}
		if len(conds) == 0 {
			return nil, cqlerr.Syntaxf("empty WHERE clause")
		}
		stmt.Where = conds
	}
	return stmt, nil
}

func parseBatch(rest string, keyspace string) (Statement, error) {
	for _, kind := range []string{"UNLOGGED", "COUNTER", "LOGGED"} {
		if r, ok := cutKeywords(rest, kind); ok {
			rest = r
			break
		}
	}
	body, ok := cutKeywords(rest, "BATCH")
	if !ok {
		return nil, cqlerr.Syntaxf("invalid BEGIN statement (expected BEGIN BATCH)")
	}

	applyIdx := indexKeyword(body, "APPLY", "BATCH")
	if applyIdx < 0 {
		return nil, cqlerr.Syntaxf("BATCH requires a closing APPLY BATCH")
	}
	if after, _ := cutKeywords(body[applyIdx:], "APPLY", "BATCH"); after != "" {
		return nil, cqlerr.Syntaxf("unexpected input after APPLY BATCH: %q", after)
	}

	stmt := &BatchStmt{}
	for _, sub := range splitStatements(body[:applyIdx]) {
		parsed, err := Parse(sub, keyspace)
		if err != nil {
			return nil, err
		}
		switch parsed.(type) {
		case *InsertStmt, *UpdateStmt, *DeleteStmt:
			stmt.Statements = append(stmt.Statements, parsed)
		default:
			return nil, cqlerr.Unsupportedf("only INSERT, UPDATE and DELETE are allowed in a BATCH")
		}
	}
	if len(stmt.Statements) == 0 {
		return nil, cqlerr.Syntaxf("empty BATCH")
	}
	return stmt, nil
}

// splitStatements splits a batch body on semicolons outside string literals.
func splitStatements(s string) []string {
	var parts []string
	cur := strings.Builder{}
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ';' && !inQuote:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())

	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return out
}
