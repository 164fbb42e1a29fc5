package domain

// Normalize converts a raw record into a DisplayEvent using the derivation
// rules of its category. It never fails: missing fields fall back to fixed
// defaults. A numeric zero counts as missing.
func Normalize(raw RawEvent, c Category) DisplayEvent {
	ev := DisplayEvent{Category: c, Raw: raw}

	switch c {
	case CategoryFlare:
		ev.Date = firstNonEmpty(raw.BeginTime, raw.EventTime)
		ev.Classification = firstNonEmpty(raw.ClassType, "Unknown Class")
		ev.PeakTime = firstNonEmpty(raw.PeakTime, raw.BeginTime)
		ev.SourceLocation = firstNonEmpty(raw.SourceLocation, "Sun")
		ev.Intensity = flareIntensity(raw.ClassType)

	case CategoryCME:
		ev.Date = firstNonEmpty(raw.StartTime, raw.EventTime)
		ev.PeakTime = firstNonEmpty(raw.StartTime, notAvailable)
		ev.SourceLocation = firstNonEmpty(raw.SourceLocation, "Sun Corona")
		if speed, ok := present(raw.Speed); ok {
			ev.Classification = formatNumber(speed) + " km/s"
		} else {
			ev.Classification = "Unknown Speed"
		}
		ev.Intensity = cmeIntensity(raw.Speed)

	case CategoryStorm:
		ev.Date = firstNonEmpty(raw.StartTime, raw.EventTime)
		ev.PeakTime = firstNonEmpty(raw.StartTime, notAvailable)
		ev.SourceLocation = "Earth Magnetosphere"
		if kp, ok := present(raw.KpIndex); ok {
			ev.Classification = "Kp " + formatNumber(kp)
		} else {
			ev.Classification = "Unknown Kp"
		}
		ev.Intensity = stormIntensity(raw.KpIndex)

	default:
		ev.Date = firstNonEmpty(raw.EventTime, raw.StartTime, raw.BeginTime)
		ev.Classification = unknown
		ev.PeakTime = notAvailable
		ev.SourceLocation = unknown
		ev.Intensity = IntensityUnknown
	}
	return ev
}

// flareIntensity is the GOES class letter, e.g. "M5.2" -> "M".
func flareIntensity(classType string) Intensity {
	if classType == "" {
		return IntensityUnknown
	}
	r := []rune(classType)
	return Intensity(string(r[0]))
}

func cmeIntensity(speed *float64) Intensity {
	v, ok := present(speed)
	switch {
	case !ok:
		return IntensityUnknown
	case v > 1000:
		return IntensityHigh
	case v > 500:
		return IntensityMedium
	default:
		return IntensityLow
	}
}

func stormIntensity(kp *float64) Intensity {
	v, ok := present(kp)
	switch {
	case !ok:
		return IntensityUnknown
	case v >= 7:
		return IntensitySevere
	case v >= 5:
		return IntensityStrong
	default:
		return IntensityMinor
	}
}

func present(f *float64) (float64, bool) {
	if f == nil || *f == 0 {
		return 0, false
	}
	return *f, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
