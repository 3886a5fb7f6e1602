// Package config holds the engine's immutable configuration knobs, grounded
// on original_source/src/config.py's SimulationConfig dataclass and the
// teacher's flat-struct-of-constants style (internal/engine/tick.go).
package config

import "time"

// Config is immutable after construction; callers that want to tweak it
// should build a fresh value, never mutate a shared one. All fields are
// exported so a host process can populate it from JSON.
type Config struct {
	// World
	WorldSeed  int64 `json:"world_seed"`
	GridWidth  int   `json:"grid_width"`
	GridHeight int   `json:"grid_height"`

	// Timing
	MaxTicks             int64         `json:"max_ticks"`
	WorkerTimeout        time.Duration `json:"worker_timeout"`
	MinTickRate          time.Duration `json:"min_tick_rate"`
	MaxTickRate          time.Duration `json:"max_tick_rate"`

	// Workers
	NumWorkers int `json:"num_workers"`

	// Entities
	InitialEntityCount   int `json:"initial_entity_count"`
	GeneratorSpawnInterval int `json:"generator_spawn_interval"`
	GeneratorMaxEntities int `json:"generator_max_entities"`

	// Spatial hash
	SpatialCellSize int `json:"spatial_cell_size"`

	// AI
	VisionRange      int     `json:"vision_range"`
	FleeHPThreshold  float64 `json:"flee_hp_threshold"`
	GoalTopN         int     `json:"goal_top_n"`

	// Town
	TownCenterX     int `json:"town_center_x"`
	TownCenterY     int `json:"town_center_y"`
	TownRadius      int `json:"town_radius"`
	TownAuraDamage  int `json:"town_aura_damage"`
	TownPassiveHeal int `json:"town_passive_heal"`

	// Hero
	HeroRespawnTicks int `json:"hero_respawn_ticks"`
	HeroHealPerTick  int `json:"hero_heal_per_tick"`

	// Combat
	BaseDamage      int     `json:"base_damage"`
	DamageVariance  float64 `json:"damage_variance"`
	CritChance      float64 `json:"crit_chance"`
	CritMultiplier  float64 `json:"crit_multiplier"`
	CoverEvasionBonus float64 `json:"cover_evasion_bonus"`

	// Leveling
	XPPerKillBase  int     `json:"xp_per_kill_base"`
	XPPerLevelScale float64 `json:"xp_per_level_scale"`
	StatGrowthHP   int     `json:"stat_growth_hp"`
	StatGrowthAtk  int     `json:"stat_growth_atk"`
	StatGrowthMatk int     `json:"stat_growth_matk"`
	StatGrowthDef  int     `json:"stat_growth_def"`
	StatGrowthSpd  int     `json:"stat_growth_spd"`
	MaxLevel       int     `json:"max_level"`

	// Inventory
	HeroInventorySlots   int     `json:"hero_inventory_slots"`
	HeroInventoryWeight  float64 `json:"hero_inventory_weight"`
	MobInventorySlots    int     `json:"mob_inventory_slots"`
	MobInventoryWeight   float64 `json:"mob_inventory_weight"`

	// Chase mechanics
	OpportunityAttackMult float64 `json:"opportunity_attack_mult"`
	ChaseClosingBase      int     `json:"chase_closing_base"`

	// Threat
	ThreatDecayRate      float64 `json:"threat_decay_rate"`
	ThreatDamageMult     float64 `json:"threat_damage_mult"`
	ThreatHealMult       float64 `json:"threat_heal_mult"`
	ThreatTankClassMult  float64 `json:"threat_tank_class_mult"`

	// Mob leash
	MobLeashRadius          int     `json:"mob_leash_radius"`
	MobLeashChaseMultiplier float64 `json:"mob_leash_chase_multiplier"`
	MobChaseGiveUpTicks     int     `json:"mob_chase_give_up_ticks"`
	MobReturnHealRate       float64 `json:"mob_return_heal_rate"`

	// Camps
	NumCamps               int `json:"num_camps"`
	CampRadius              int `json:"camp_radius"`
	CampSpawnInterval       int `json:"camp_spawn_interval"`
	CampMaxGuards           int `json:"camp_max_guards"`
	CampMinDistanceFromTown int `json:"camp_min_distance_from_town"`

	// Sanctuary
	SanctuaryRadius int `json:"sanctuary_radius"`

	// Resource nodes
	ResourcesPerRegion   int `json:"resources_per_region"`
	ResourceRespawnTicks int `json:"resource_respawn_ticks"`
	HarvestDuration      int `json:"harvest_duration"`

	// Territory intrusion
	TerritoryDebuffDuration int `json:"territory_debuff_duration"`
	TerritoryAlertRadius    int `json:"territory_alert_radius"`

	// Looting
	LootDuration int `json:"loot_duration"`

	// Subsystem tick rates
	SubsystemRateCore        int `json:"subsystem_rate_core"`
	SubsystemRateEnvironment int `json:"subsystem_rate_environment"`
	SubsystemRateEconomy     int `json:"subsystem_rate_economy"`

	// Logging
	LogLevel string `json:"log_level"`
}

// Default returns the reference configuration, values carried over from
// original_source/src/config.py's defaults.
func Default() Config {
	return Config{
		WorldSeed:  42,
		GridWidth:  192,
		GridHeight: 192,

		MaxTicks:      50000,
		WorkerTimeout: 2 * time.Second,
		MinTickRate:   10 * time.Millisecond,
		MaxTickRate:   2 * time.Second,

		NumWorkers: 4,

		InitialEntityCount:     25,
		GeneratorSpawnInterval: 10,
		GeneratorMaxEntities:   80,

		SpatialCellSize: 8,

		VisionRange:     6,
		FleeHPThreshold: 0.3,
		GoalTopN:        3,

		TownCenterX:     12,
		TownCenterY:     12,
		TownRadius:      4,
		TownAuraDamage:  2,
		TownPassiveHeal: 1,

		HeroRespawnTicks: 10,
		HeroHealPerTick:  3,

		BaseDamage:        5,
		DamageVariance:    0.3,
		CritChance:        0.1,
		CritMultiplier:    2.0,
		CoverEvasionBonus: 0.07,

		XPPerKillBase:   30,
		XPPerLevelScale: 1.5,
		StatGrowthHP:    5,
		StatGrowthAtk:   1,
		StatGrowthMatk:  1,
		StatGrowthDef:   1,
		StatGrowthSpd:   1,
		MaxLevel:        20,

		HeroInventorySlots:  36,
		HeroInventoryWeight: 90.0,
		MobInventorySlots:   12,
		MobInventoryWeight:  30.0,

		OpportunityAttackMult: 0.5,
		ChaseClosingBase:      6,

		ThreatDecayRate:     0.10,
		ThreatDamageMult:    1.0,
		ThreatHealMult:      0.5,
		ThreatTankClassMult: 1.5,

		MobLeashRadius:          15,
		MobLeashChaseMultiplier: 1.5,
		MobChaseGiveUpTicks:     20,
		MobReturnHealRate:       0.05,

		NumCamps:               8,
		CampRadius:             2,
		CampSpawnInterval:      20,
		CampMaxGuards:          5,
		CampMinDistanceFromTown: 30,

		SanctuaryRadius: 7,

		ResourcesPerRegion:   4,
		ResourceRespawnTicks: 30,
		HarvestDuration:      2,

		TerritoryDebuffDuration: 3,
		TerritoryAlertRadius:    6,

		LootDuration: 3,

		SubsystemRateCore:        1,
		SubsystemRateEnvironment: 2,
		SubsystemRateEconomy:     5,

		LogLevel: "INFO",
	}
}

// ClampTickRate enforces the engine manager's tick-rate bounds (spec §4.12):
// floor 10ms (0.01s), ceiling 2s. Misuse is clamped, never errored.
func (c Config) ClampTickRate(d time.Duration) time.Duration {
	if d < c.MinTickRate {
		return c.MinTickRate
	}
	if d > c.MaxTickRate {
		return c.MaxTickRate
	}
	return d
}
