// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package attrs

import "math"

func float64FromBits(u uint64) float64 { return math.Float64frombits(u) }

func float64ToBits(f float64) uint64 { return math.Float64bits(f) }
