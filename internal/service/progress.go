package service

// Avance de nivel: el nivel 1 cubre 0-99 XP y cada nivel siguiente
// exige level*100 XP adicionales (nivel 2 a los 200, nivel 3 a los 500,
// nivel 4 a los 900, ...). La fórmula se conserva tal cual por
// compatibilidad con datos existentes.

const baseLevelXP = 100

// LevelFromXP calcula el nivel que corresponde a un total de XP.
func LevelFromXP(xp int) int {
	if xp < baseLevelXP {
		return 1
	}

	level := 1
	cumulative := 0
	for {
		level++
		cumulative += level * baseLevelXP
		if xp < cumulative {
			return level - 1
		}
	}
}

// LevelProgress devuelve el XP que falta para el siguiente nivel y el
// porcentaje de avance dentro del nivel actual, acotado a [0, 100].
func LevelProgress(xp, level int) (int, float64) {
	xpForCurrentLevel := 0
	span := baseLevelXP
	if level > 1 {
		for i := 1; i < level; i++ {
			xpForCurrentLevel += i * baseLevelXP
		}
		span = level * baseLevelXP
	}
	xpForNextLevel := xpForCurrentLevel + span

	xpToNext := xpForNextLevel - xp
	progress := float64(xp-xpForCurrentLevel) / float64(span) * 100
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return xpToNext, progress
}
