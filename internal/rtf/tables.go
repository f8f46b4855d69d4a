package rtf

// ignorableDestinations are groups whose content is never document text.
// Field results (fldrslt) are deliberately absent: they hold the visible
// text of hyperlinks and page fields.
var ignorableDestinations = map[string]struct{}{
	"annotation":         {},
	"atnauthor":          {},
	"atnid":              {},
	"author":             {},
	"bkmkend":            {},
	"bkmkstart":          {},
	"colorschememapping": {},
	"colortbl":           {},
	"comment":            {},
	"datafield":          {},
	"datastore":          {},
	"defchp":             {},
	"defpap":             {},
	"docvar":             {},
	"falt":               {},
	"filetbl":            {},
	"fldinst":            {},
	"footer":             {},
	"footerf":            {},
	"footerl":            {},
	"footerr":            {},
	"footnote":           {},
	"formfield":          {},
	"generator":          {},
	"header":             {},
	"headerf":            {},
	"headerl":            {},
	"headerr":            {},
	"info":               {},
	"keywords":           {},
	"latentstyles":       {},
	"listoverridetable":  {},
	"listtable":          {},
	"mmathPr":            {},
	"nonshppict":         {},
	"object":             {},
	"objdata":            {},
	"operator":           {},
	"panose":             {},
	"pgdsctbl":           {},
	"pict":               {},
	"pnseclvl":           {},
	"revtbl":             {},
	"rsidtbl":            {},
	"shp":                {},
	"shpinst":            {},
	"stylesheet":         {},
	"subject":            {},
	"tc":                 {},
	"template":           {},
	"themedata":          {},
	"title":              {},
	"userprops":          {},
	"wgrffmtfilter":      {},
	"xe":                 {},
	"xmlnstbl":           {},
}

// wordText maps control words that stand for text to their replacement.
var wordText = map[string]string{
	"par":       "\n",
	"line":      "\n",
	"row":       "\n",
	"sect":      "\n",
	"page":      "\n" + PageBreak + "\n",
	"tab":       "\t",
	"cell":      "\t",
	"nestcell":  "\t",
	"emdash":    "—",
	"endash":    "–",
	"emspace":   " ",
	"enspace":   " ",
	"qmspace":   " ",
	"bullet":    "•",
	"lquote":    "‘",
	"rquote":    "’",
	"ldblquote": "“",
	"rdblquote": "”",
}
