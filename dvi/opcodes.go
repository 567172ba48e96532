package dvi

// Opcode ranges exactly as enumerated in spec §4.11/§6.
const (
	opSetCharLo = 0   // set_char_0 .. set_char_127
	opSetCharHi = 127

	opSet1   = 128 // set1..set4: set_char_n, n-byte code
	opSet4   = 131
	opSetRule = 132
	opPut1    = 133 // put1..put4
	opPut4    = 136
	opPutRule = 137

	opNop  = 138
	opBop  = 139
	opEop  = 140
	opPush = 141
	opPop  = 142

	opRight1 = 143 // right1..right4
	opRight4 = 146
	opW0     = 147
	opW1     = 148 // w1..w4
	opW4     = 151
	opX0     = 152
	opX1     = 153 // x1..x4
	opX4     = 156
	opDown1  = 157 // down1..down4
	opDown4  = 160
	opY0     = 161
	opY1     = 162 // y1..y4
	opY4     = 165
	opZ0     = 166
	opZ1     = 167 // z1..z4
	opZ4     = 170

	opFontNumLo = 171 // fnt_num_0 .. fnt_num_63
	opFontNumHi = 234

	opFnt1 = 235 // fnt1..fnt4
	opFnt4 = 238
	opXXX1 = 239 // xxx1..xxx4
	opXXX4 = 242
	opFntDef1 = 243 // fnt_def1..fnt_def4
	opFntDef4 = 246
	opPre      = 247
	opPost     = 248
	opPostPost = 249

	// pTeX / XDV extensions, per §4.11.
	opXDVPicture   = 251
	opXDVNativeDef = 252
	opXDVGlyphs    = 253
	opXDVGlyphsY   = 254
	opPTeXDir      = 255
)

// Identification bytes recognised in the preamble/postamble (§6).
const (
	idDVIStandard = 2
	idPTeX        = 3
	idXDV5        = 5
	idXDV6        = 6
)
