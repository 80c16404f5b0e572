package smc

import "SMCSentinel/internal/model"

type palette struct {
	fill   string
	border string
}

var (
	monoBull = palette{"rgba(189, 189, 189, 0.18)", "#b2b5be"}
	monoBear = palette{"rgba(93, 96, 107, 0.18)", "#5d606b"}

	swingBullOB    = palette{"rgba(24, 72, 204, 0.22)", "#1848cc"}
	swingBearOB    = palette{"rgba(178, 40, 51, 0.22)", "#b22833"}
	internalBullOB = palette{"rgba(49, 121, 245, 0.22)", "#3179f5"}
	internalBearOB = palette{"rgba(247, 124, 128, 0.22)", "#f77c80"}

	bullFVG = palette{"rgba(0, 255, 104, 0.20)", "#00ff68"}
	bearFVG = palette{"rgba(255, 0, 8, 0.20)", "#ff0008"}

	premiumZone     = palette{"rgba(242, 54, 69, 0.10)", "#F23645"}
	equilibriumZone = palette{"rgba(135, 139, 148, 0.08)", "#878b94"}
	discountZone    = palette{"rgba(8, 153, 129, 0.10)", "#089981"}
)

func monochrome(bias model.Bias) palette {
	if bias == model.Bull {
		return monoBull
	}
	return monoBear
}

func orderBlockPalette(scope model.Scope, bias model.Bias, style Style) palette {
	if style == StyleMonochrome {
		return monochrome(bias)
	}
	switch {
	case scope == model.ScopeSwing && bias == model.Bull:
		return swingBullOB
	case scope == model.ScopeSwing:
		return swingBearOB
	case bias == model.Bull:
		return internalBullOB
	default:
		return internalBearOB
	}
}

func fairValueGapPalette(bias model.Bias, style Style) palette {
	if style == StyleMonochrome {
		return monochrome(bias)
	}
	if bias == model.Bull {
		return bullFVG
	}
	return bearFVG
}
