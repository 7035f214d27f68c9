package models

// BaseXPPerLevel is the XP cost multiplier: finishing level n costs n*BaseXPPerLevel.
const BaseXPPerLevel = 100

// XPToCompleteLevel returns the XP needed to go from the start of level to level+1.
func XPToCompleteLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(level) * BaseXPPerLevel
}

// XPForLevelStart returns the total XP at which level begins (level 1 starts at 0).
func XPForLevelStart(level int) int64 {
	var total int64
	for i := 1; i < level; i++ {
		total += XPToCompleteLevel(i)
	}
	return total
}

// CalculateLevel maps accumulated XP to a level on the cumulative staircase.
// Negative XP is treated as level 1.
func CalculateLevel(xp int64) int {
	if xp < 0 {
		return 1
	}
	level := 1
	var totalXPForLevel int64
	xpForNextLevel := XPToCompleteLevel(level)

	for xp >= totalXPForLevel+xpForNextLevel {
		totalXPForLevel += xpForNextLevel
		level++
		xpForNextLevel = XPToCompleteLevel(level)
	}
	return level
}

// LevelProgress describes how far a user is into their current level.
type LevelProgress struct {
	Level          int     `json:"level"`
	XPIntoLevel    int64   `json:"xp_into_level"`
	XPForNextLevel int64   `json:"xp_for_next_level"`
	Percent        float64 `json:"percent"`
}

func ProgressFor(xp int64) LevelProgress {
	if xp < 0 {
		xp = 0
	}
	level := CalculateLevel(xp)
	into := xp - XPForLevelStart(level)
	next := XPToCompleteLevel(level)

	percent := float64(into) / float64(next) * 100
	if percent > 100 {
		percent = 100
	}
	return LevelProgress{
		Level:          level,
		XPIntoLevel:    into,
		XPForNextLevel: next,
		Percent:        percent,
	}
}
