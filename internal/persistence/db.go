// Package persistence provides optional SQLite-based world state storage.
// Grounded on the teacher's internal/persistence.DB (same sqlx +
// modernc.org/sqlite migration/Save*/Load* shape), adapted from a
// settlement-sim schema (agents, settlements, factions) to the tick-driven
// World's schema (entities, resource nodes, chests, events). The core loop
// never imports this package — persistence sits entirely behind the DB
// type, and a run with no *DB at all is just as correct (spec §4.12 doesn't
// require it for tick_once/replay).
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/eventlog"
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/world"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entities (
		id INTEGER PRIMARY KEY,
		kind TEXT NOT NULL,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL,
		faction INTEGER NOT NULL,
		ai_state INTEGER NOT NULL,
		hp INTEGER NOT NULL,
		max_hp INTEGER NOT NULL,
		level INTEGER NOT NULL,
		next_act_at REAL NOT NULL,
		is_hero INTEGER NOT NULL,
		body_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS resources (
		id INTEGER PRIMARY KEY,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL,
		item_id TEXT NOT NULL,
		charges INTEGER NOT NULL,
		max_charges INTEGER NOT NULL,
		respawn_ticks INTEGER NOT NULL,
		ticks_until_respawn INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chests (
		id INTEGER PRIMARY KEY,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL,
		looted INTEGER NOT NULL,
		respawn_ticks INTEGER NOT NULL,
		ticks_until_respawn INTEGER NOT NULL,
		body_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		category TEXT NOT NULL,
		message TEXT NOT NULL,
		body_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// entityBody is the part of Entity too nested to give its own columns —
// mirrors the teacher's skills_json/needs_json/soul_json blob columns.
type entityBody struct {
	Memory        map[entity.ID][2]int              `json:"memory"`
	Inventory     *entity.Inventory                 `json:"inventory"`
	Effects       []entity.StatusEffect              `json:"effects"`
	Attributes    *entity.Attributes                 `json:"attributes"`
	AttributeCaps *entity.AttributeCaps              `json:"attribute_caps"`
	HeroClass     entity.HeroClass                   `json:"hero_class"`
	Skills        map[string]*entity.SkillInstance   `json:"skills"`
	Quests        []*entity.Quest                    `json:"quests"`
	Traits        []entity.TraitType                 `json:"traits"`
	ThreatTable   map[entity.ID]float64              `json:"threat_table"`
	Goals         []string                           `json:"goals"`
	KnownRecipes  []string                           `json:"known_recipes"`
	Stats         entity.Stats                       `json:"stats"`
}

// SaveEntities persists every entity, overwriting prior rows: the indexed
// columns plus the nested fields in entityBody. Other Entity fields (such
// as HomePos, Tier, TerrainMemory and EntityMemory) are not saved.
func (db *DB) SaveEntities(w *world.World) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entities`); err != nil {
		return err
	}

	for _, e := range w.Entities {
		memory := make(map[entity.ID][2]int, len(e.Memory))
		for id, pos := range e.Memory {
			memory[id] = [2]int{pos.X, pos.Y}
		}
		body := entityBody{
			Memory:        memory,
			Inventory:     e.Inventory,
			Effects:       e.Effects,
			Attributes:    e.Attributes,
			AttributeCaps: e.AttributeCaps,
			HeroClass:     e.HeroClass,
			Skills:        e.Skills,
			Quests:        e.Quests,
			Traits:        e.Traits,
			ThreatTable:   e.ThreatTable,
			Goals:         e.Goals,
			KnownRecipes:  e.KnownRecipes,
			Stats:         e.Stats,
		}
		blob, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal entity %d: %w", e.ID, err)
		}
		_, err = tx.Exec(`
			INSERT INTO entities (id, kind, pos_x, pos_y, faction, ai_state, hp, max_hp, level, next_act_at, is_hero, body_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Kind, e.Pos.X, e.Pos.Y, e.Faction, e.AIState,
			e.Stats.HP, e.Stats.MaxHP, e.Stats.Level, e.NextActAt, boolInt(e.IsHero), string(blob))
		if err != nil {
			return fmt.Errorf("insert entity %d: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

type entityRow struct {
	ID        entity.ID `db:"id"`
	Kind      string    `db:"kind"`
	PosX      int       `db:"pos_x"`
	PosY      int       `db:"pos_y"`
	Faction   int32     `db:"faction"`
	AIState   int8      `db:"ai_state"`
	NextActAt float64   `db:"next_act_at"`
	IsHero    int       `db:"is_hero"`
	BodyJSON  string    `db:"body_json"`
}

// LoadEntities reconstructs every persisted entity. Callers are responsible
// for re-inserting the result into a fresh World via world.AddEntity so the
// spatial index stays consistent.
func (db *DB) LoadEntities() ([]*entity.Entity, error) {
	var rows []entityRow
	if err := db.conn.Select(&rows, `SELECT id, kind, pos_x, pos_y, faction, ai_state, next_act_at, is_hero, body_json FROM entities`); err != nil {
		return nil, fmt.Errorf("load entities: %w", err)
	}

	out := make([]*entity.Entity, 0, len(rows))
	for _, r := range rows {
		var body entityBody
		if err := json.Unmarshal([]byte(r.BodyJSON), &body); err != nil {
			return nil, fmt.Errorf("unmarshal entity %d: %w", r.ID, err)
		}
		memory := make(map[entity.ID]vecgrid.Vector2, len(body.Memory))
		for id, xy := range body.Memory {
			memory[id] = vecgrid.Vector2{X: xy[0], Y: xy[1]}
		}
		e := &entity.Entity{
			ID:            r.ID,
			Kind:          r.Kind,
			Pos:           vecgrid.Vector2{X: r.PosX, Y: r.PosY},
			Stats:         body.Stats,
			Faction:       faction.Faction(r.Faction),
			AIState:       entity.AIState(r.AIState),
			NextActAt:     r.NextActAt,
			Memory:        memory,
			Inventory:     body.Inventory,
			Effects:       body.Effects,
			Attributes:    body.Attributes,
			AttributeCaps: body.AttributeCaps,
			HeroClass:     body.HeroClass,
			Skills:        body.Skills,
			Quests:        body.Quests,
			Traits:        body.Traits,
			ThreatTable:   body.ThreatTable,
			Goals:         body.Goals,
			KnownRecipes:  body.KnownRecipes,
			IsHero:        r.IsHero != 0,
		}
		out = append(out, e)
	}
	return out, nil
}

// SaveResources persists resource node state (charges, respawn timers).
func (db *DB) SaveResources(w *world.World) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM resources`); err != nil {
		return err
	}
	for _, n := range w.Resources {
		_, err := tx.Exec(`
			INSERT INTO resources (id, pos_x, pos_y, item_id, charges, max_charges, respawn_ticks, ticks_until_respawn)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.Pos.X, n.Pos.Y, n.ItemID, n.Charges, n.MaxCharges, n.RespawnTicks, n.TicksUntilRespawn)
		if err != nil {
			return fmt.Errorf("insert resource %d: %w", n.ID, err)
		}
	}
	return tx.Commit()
}

// SaveChests persists chest loot tables and guard/respawn state.
func (db *DB) SaveChests(w *world.World) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM chests`); err != nil {
		return err
	}
	for _, c := range w.Chests {
		blob, err := json.Marshal(struct {
			ItemIDs []string   `json:"item_ids"`
			GuardID *entity.ID `json:"guard_id,omitempty"`
		}{c.ItemIDs, c.GuardID})
		if err != nil {
			return fmt.Errorf("marshal chest %d: %w", c.ID, err)
		}
		_, err = tx.Exec(`
			INSERT INTO chests (id, pos_x, pos_y, looted, respawn_ticks, ticks_until_respawn, body_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Pos.X, c.Pos.Y, boolInt(c.Looted), c.RespawnTicks, c.TicksUntilRespawn, string(blob))
		if err != nil {
			return fmt.Errorf("insert chest %d: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// SaveEvents appends events to the log table (append-only, unlike
// entities/resources/chests which are point-in-time snapshots).
func (db *DB) SaveEvents(events []eventlog.Event) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		blob, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		_, err = tx.Exec(`INSERT INTO events (tick, category, message, body_json) VALUES (?, ?, ?, ?)`,
			e.Tick, e.Category, e.Message, string(blob))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// TrimOldEvents deletes events older than keepTicks behind currentTick,
// bounding the log table's growth over a long run.
func (db *DB) TrimOldEvents(currentTick int64, keepTicks int64) (int64, error) {
	cutoff := currentTick - keepTicks
	if cutoff < 0 {
		cutoff = 0
	}
	res, err := db.conn.Exec(`DELETE FROM events WHERE tick < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RecentEvents returns the most recent limit events, oldest first.
func (db *DB) RecentEvents(limit int) ([]eventlog.Event, error) {
	var rows []struct {
		BodyJSON string `db:"body_json"`
	}
	err := db.conn.Select(&rows, `SELECT body_json FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	out := make([]eventlog.Event, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		if err := json.Unmarshal([]byte(rows[i].BodyJSON), &out[len(rows)-1-i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SaveMeta stores a single key/value pair (tick, seed, run id, ...).
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO world_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, `SELECT value FROM world_meta WHERE key = ?`, key)
	return value, err
}

// SaveWorldState is the convenience entry point wiring Save* together into
// a single checkpoint, mirroring the teacher's SaveWorldState(sim).
func (db *DB) SaveWorldState(w *world.World) error {
	if err := db.SaveEntities(w); err != nil {
		return err
	}
	if err := db.SaveResources(w); err != nil {
		return err
	}
	if err := db.SaveChests(w); err != nil {
		return err
	}
	if err := db.SaveMeta("tick", fmt.Sprint(w.Tick)); err != nil {
		return err
	}
	return db.SaveMeta("seed", fmt.Sprint(w.Seed))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
