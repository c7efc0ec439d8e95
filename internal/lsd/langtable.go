package lsd

// langEntry is one (code, name) row from original_source's langMap. The
// table is an ordered list, not a map literal, because Lingvo's own list
// has duplicate codes (distinct human-readable names sharing one LCID);
// the original std::map<int, u16string> aggregate-initializes by insert,
// which keeps the FIRST occurrence of a duplicate key. langName below
// reproduces that by only inserting on first sight, in this exact order.
var langEntries = []struct {
	code int
	name string
}{
	{1555, "Abazin"}, {1556, "Abkhaz"}, {1557, "Adyghe"}, {1078, "Afrikaans"},
	{1559, "Agul"}, {1052, "Albanian"}, {1545, "Altaic"}, {1025, "Arabic"},
	{5121, "ArabicAlgeria"}, {15361, "ArabicBahrain"}, {3073, "ArabicEgypt"},
	{2049, "ArabicIraq"}, {11265, "ArabicJordan"}, {13313, "ArabicKuwait"},
	{12289, "ArabicLebanon"}, {4097, "ArabicLibya"}, {6145, "ArabicMorocco"},
	{8193, "ArabicOman"}, {16385, "ArabicQatar"}, {1025, "ArabicSaudiArabia"},
	{10241, "ArabicSyria"}, {7169, "ArabicTunisia"}, {14337, "ArabicUAE"},
	{9217, "ArabicYemen"}, {1067, "Armenian"}, {1067, "ArmenianEastern"},
	{33835, "ArmenianGrabar"}, {32811, "ArmenianWestern"}, {1101, "Assamese"},
	{1558, "Awar"}, {1560, "Aymara"}, {2092, "AzeriCyrillic"},
	{1068, "AzeriLatin"}, {1561, "Bashkir"}, {1069, "Basque"},
	{1059, "Belarusian"}, {1562, "Bemba"}, {1093, "Bengali"},
	{1563, "Blackfoot"}, {1536, "Breton"}, {1564, "Bugotu"},
	{1026, "Bulgarian"}, {1109, "Burmese"}, {1565, "Buryat"},
	{1059, "Byelorussian"}, {1027, "Catalan"}, {1566, "Chamorro"},
	{1544, "Chechen"}, {1028, "Chinese"}, {3076, "ChineseHongKong"},
	{5124, "ChineseMacau"}, {2052, "ChinesePRC"}, {4100, "ChineseSingapore"},
	{1028, "ChineseTaiwan"}, {1074, "Chuana"}, {1567, "Chukcha"},
	{1568, "Chuvash"}, {1569, "Corsican"}, {1546, "CrimeanTatar"},
	{1050, "Croatian"}, {1570, "Crow"}, {1029, "Czech"}, {1632, "Dakota"},
	{1030, "Danish"}, {1571, "Dargin"}, {1571, "Dargwa"}, {1572, "Dungan"},
	{1043, "Dutch"}, {2067, "DutchBelgian"}, {1043, "DutchStandard"},
	{1033, "English"}, {3081, "EnglishAustralian"}, {10249, "EnglishBelize"},
	{4105, "EnglishCanadian"}, {9225, "EnglishCaribbean"},
	{6153, "EnglishIreland"}, {8201, "EnglishJamaica"}, {35849, "EnglishLaw"},
	{33801, "EnglishMedical"}, {5129, "EnglishNewZealand"},
	{13321, "EnglishPhilippines"}, {34825, "EnglishProperNames"},
	{7177, "EnglishSouthAfrica"}, {11273, "EnglishTrinidad"},
	{2057, "EnglishUnitedKingdom"}, {1033, "EnglishUnitedStates"},
	{12297, "EnglishZimbabwe"}, {1573, "EskimoCyrillic"},
	{1581, "EskimoLatin"}, {1537, "Esperanto"}, {1061, "Estonian"},
	{1574, "Even"}, {1575, "Evenki"}, {1080, "Faeroese"}, {1080, "Faroese"},
	{1065, "Farsi"}, {1538, "Fijian"}, {1035, "Finnish"}, {2067, "Flemish"},
	{1036, "French"}, {2060, "FrenchBelgian"}, {3084, "FrenchCanadian"},
	{5132, "FrenchLuxembourg"}, {6156, "FrenchMonaco"},
	{33804, "FrenchProperNames"}, {1036, "FrenchStandard"},
	{4108, "FrenchSwiss"}, {1122, "Frisian"}, {1576, "Frisian_Legacy"},
	{1577, "Friulian"}, {2108, "Gaelic"}, {1084, "GaelicScottish"},
	{1552, "Gaelic_Legacy"}, {1578, "Gagauz"}, {1110, "Galician"},
	{1579, "Galician_Legacy"}, {1580, "Ganda"}, {1079, "Georgian"},
	{1031, "German"}, {3079, "GermanAustrian"}, {34823, "GermanLaw"},
	{5127, "GermanLiechtenstein"}, {4103, "GermanLuxembourg"},
	{36871, "GermanMedical"}, {32775, "GermanNewSpelling"},
	{35847, "GermanNewSpellingLaw"}, {37895, "GermanNewSpellingMedical"},
	{39943, "GermanNewSpellingProperNames"}, {38919, "GermanProperNames"},
	{1031, "GermanStandard"}, {2055, "GermanSwiss"}, {1032, "Greek"},
	{32776, "GreekKathareusa"}, {1581, "Greenlandic"}, {1140, "Guarani"},
	{1582, "Guarani_Legacy"}, {1095, "Gujarati"}, {1583, "Hani"},
	{1128, "Hausa"}, {1652, "Hausa_Legacy"}, {1141, "Hawaiian"},
	{1539, "Hawaiian_Legacy"}, {1037, "Hebrew"}, {1081, "Hindi"},
	{1038, "Hungarian"}, {1039, "Icelandic"}, {1584, "Ido"},
	{1057, "Indonesian"}, {1585, "Ingush"}, {1586, "Interlingua"},
	{2108, "Irish"}, {1552, "Irish_Legacy"}, {1040, "Italian"},
	{33808, "ItalianProperNames"}, {1040, "ItalianStandard"},
	{2064, "ItalianSwiss"}, {1041, "Japanese"}, {1548, "Kabardian"},
	{1640, "Kachin"}, {1587, "Kalmyk"}, {1099, "Kannada"},
	{1589, "KarachayBalkar"}, {1588, "Karakalpak"}, {1120, "Kashmiri"},
	{2144, "KashmiriIndia"}, {1590, "Kasub"}, {1591, "Kawa"},
	{1087, "Kazakh"}, {1592, "Khakas"}, {1593, "Khanty"}, {1107, "Khmer"},
	{1594, "Kikuyu"}, {1595, "Kirgiz"}, {1597, "KomiPermian"},
	{1596, "KomiZyryan"}, {1598, "Kongo"}, {1111, "Konkani"},
	{1042, "Korean"}, {2066, "KoreanJohab"}, {1599, "Koryak"},
	{1600, "Kpelle"}, {1601, "Kumyk"}, {1602, "Kurdish"},
	{1603, "KurdishCyrillic"}, {1604, "Lak"}, {1108, "Lao"},
	{1083, "Lappish"}, {1142, "Latin"}, {1540, "Latin_Legacy"},
	{1062, "Latvian"}, {1655, "LatvianGothic"}, {1605, "Lezgin"},
	{1063, "Lithuanian"}, {2087, "LithuanianClassic"}, {1606, "Luba"},
	{1071, "Macedonian"}, {1607, "Malagasy"}, {1086, "Malay"},
	{2110, "MalayBruneiDarussalam"}, {1086, "MalayMalaysian"},
	{1100, "Malayalam"}, {1608, "Malinke"}, {1082, "Maltese"},
	{1112, "Manipuri"}, {1609, "Mansi"}, {1153, "Maori"}, {1102, "Marathi"},
	{1610, "Mari"}, {1611, "Maya"}, {1612, "Miao"}, {1613, "Minankabaw"},
	{1614, "Mohawk"}, {1104, "Mongol"}, {1615, "Mordvin"},
	{1616, "Nahuatl"}, {1617, "Nanai"}, {1618, "Nenets"}, {1121, "Nepali"},
	{2145, "NepaliIndia"}, {1619, "Nivkh"}, {1620, "Nogay"},
	{1044, "Norwegian"}, {1044, "NorwegianBokmal"},
	{2068, "NorwegianNynorsk"}, {1621, "Nyanja"}, {1622, "Occidental"},
	{1623, "Ojibway"}, {32777, "OldEnglish"}, {32780, "OldFrench"},
	{33799, "OldGerman"}, {32784, "OldItalian"}, {1657, "OldSlavonic"},
	{32778, "OldSpanish"}, {1096, "Oriya"}, {1547, "Ossetic"},
	{1145, "Papiamento"}, {1624, "Papiamento_Legacy"},
	{1625, "PidginEnglish"}, {1654, "Pinyin"}, {1045, "Polish"},
	{1046, "Portuguese"}, {1046, "PortugueseBrazilian"},
	{2070, "PortugueseStandard"}, {1541, "Provencal"}, {1094, "Punjabi"},
	{1131, "Quechua"}, {1131, "QuechuaBolivia"}, {2155, "QuechuaEcuador"},
	{3179, "QuechuaPeru"}, {1626, "Quechua_Legacy"}, {1047, "RhaetoRomanic"},
	{1048, "Romanian"}, {2072, "RomanianMoldavia"}, {1627, "Romany"},
	{1628, "Ruanda"}, {1629, "Rundi"}, {1049, "Russian"},
	{2073, "RussianMoldavia"}, {34841, "RussianOldOrtho"},
	{32793, "RussianOldSpelling"}, {33817, "RussianProperNames"},
	{1083, "Saami"}, {1542, "Samoan"}, {1103, "Sanskrit"}, {1630, "Selkup"},
	{3098, "SerbianCyrillic"}, {2074, "SerbianLatin"}, {1631, "Shona"},
	{1113, "Sindhi"}, {1632, "Sioux"}, {1051, "Slovak"},
	{1060, "Slovenian"}, {1143, "Somali"}, {1633, "Somali_Legacy"},
	{1070, "Sorbian"}, {1634, "Sotho"}, {1034, "Spanish"},
	{11274, "SpanishArgentina"}, {16394, "SpanishBolivia"},
	{13322, "SpanishChile"}, {9226, "SpanishColombia"},
	{5130, "SpanishCostaRica"}, {7178, "SpanishDominicanRepublic"},
	{12298, "SpanishEcuador"}, {17418, "SpanishElSalvador"},
	{4106, "SpanishGuatemala"}, {18442, "SpanishHonduras"},
	{2058, "SpanishMexican"}, {3082, "SpanishModernSort"},
	{19466, "SpanishNicaragua"}, {6154, "SpanishPanama"},
	{15370, "SpanishParaguay"}, {10250, "SpanishPeru"},
	{33802, "SpanishProperNames"}, {20490, "SpanishPuertoRico"},
	{1034, "SpanishTraditionalSort"}, {14346, "SpanishUruguay"},
	{8202, "SpanishVenezuela"}, {1635, "Sunda"}, {1072, "Sutu"},
	{1089, "Swahili"}, {1636, "Swazi"}, {1053, "Swedish"},
	{2077, "SwedishFinland"}, {1637, "Tabassaran"}, {1553, "Tagalog"},
	{1639, "Tahitian"}, {1064, "Tajik"}, {1638, "Tajik_Legacy"},
	{1097, "Tamil"}, {1092, "Tatar"}, {1098, "Telugu"}, {1054, "Thai"},
	{1105, "Tibet"}, {1640, "Tinpo"}, {1641, "Tongan"}, {1073, "Tsonga"},
	{1074, "Tswana"}, {1642, "Tun"}, {1055, "Turkish"}, {1090, "Turkmen"},
	{1656, "TurkmenLatin"}, {1643, "Turkmen_Legacy"}, {1644, "Tuvin"},
	{1645, "Udmurt"}, {1646, "Uighur"}, {1646, "UighurCyrillic"},
	{1647, "UighurLatin"}, {1058, "Ukrainian"}, {1653, "Universal"},
	{2080, "UrduIndia"}, {1056, "UrduPakistan"}, {1554, "User"},
	{2115, "UzbekCyrillic"}, {1091, "UzbekLatin"}, {1075, "Venda"},
	{1066, "Vietnamese"}, {1648, "Visayan"}, {1106, "Welsh"},
	{1543, "Welsh_Legacy"}, {1070, "Wend"}, {1160, "Wolof"},
	{1649, "Wolof_Legacy"}, {1076, "Xhosa"}, {1157, "Yakut"},
	{1650, "Yakut_Legacy"}, {1085, "Yiddish"}, {1651, "Zapotec"},
	{1077, "Zulu"},
}

var langMap = buildLangMap()

func buildLangMap() map[int]string {
	m := make(map[int]string, len(langEntries))
	for _, e := range langEntries {
		if _, ok := m[e.code]; !ok {
			m[e.code] = e.name
		}
	}
	return m
}

// LangFromCode returns the Lingvo language name for an LCID-like code, or
// "unknown" if the code is not in the table, matching langFromCode.
func LangFromCode(code int) string {
	if name, ok := langMap[code]; ok {
		return name
	}
	return "unknown"
}

// LangEntries returns the full (code, name) table in original_source's
// insertion order, for the CLI's --codes listing (tools.cpp's
// printLanguages iterates the same std::map).
func LangEntries() []struct {
	Code int
	Name string
} {
	out := make([]struct {
		Code int
		Name string
	}, len(langEntries))
	for i, e := range langEntries {
		out[i] = struct {
			Code int
			Name string
		}{e.code, e.name}
	}
	return out
}
