package ui

// Accessors for the active theme's escape codes. Each returns "" when
// colours are disabled.

// ColorPrimary returns the primary accent code.
func ColorPrimary() string { return GetCurrentTheme().Primary }

// ColorSecondary returns the secondary code.
func ColorSecondary() string { return GetCurrentTheme().Secondary }

// ColorGreen returns the success code.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning code.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorRed returns the error code.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorCurve returns the plot line code.
func ColorCurve() string { return GetCurrentTheme().Curve }

// ColorArea returns the shaded area code.
func ColorArea() string { return GetCurrentTheme().Area }

// ColorBold returns the bold code.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorReset returns the reset code.
func ColorReset() string { return GetCurrentTheme().Reset }

// Paint wraps s in code and a reset, or returns s unchanged when code is
// empty.
func Paint(code, s string) string {
	if code == "" {
		return s
	}
	return code + s + ColorReset()
}
