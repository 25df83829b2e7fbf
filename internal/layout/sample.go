package layout

// Sample returns the demo certificate layout used by the playground
// project: a recipient name, a course line, a date, and a verification QR
// code, sized for a 1600x1131 landscape template.
func Sample() Document {
	return Document{
		{
			ID: "ph_sample_name", Name: "name",
			X: 800, Y: 520, W: 900, H: 110,
			Align: AlignCenter, Type: TypeText,
			FontSize: 72, FontFamily: "Georgia", Fill: "#1e293b", IsBold: true,
		},
		{
			ID: "ph_sample_course", Name: "course",
			X: 800, Y: 660, W: 1000, H: 60,
			Align: AlignCenter, Type: TypeText,
			FontFamily: DefaultFontFamily, Fill: "#334155", IsItalic: true,
		},
		{
			ID: "ph_sample_date", Name: "date",
			X: 420, Y: 930, W: 320, H: 50,
			Align: AlignLeft, Type: TypeText,
			FontSize: 28, FontFamily: DefaultFontFamily, Fill: DefaultFill,
		},
		{
			ID: "ph_sample_qr", Name: "verify_url",
			X: 1320, Y: 900, W: DefaultQRSize, H: DefaultQRSize,
			Align: AlignCenter, Type: TypeQRCode,
		},
	}
}
