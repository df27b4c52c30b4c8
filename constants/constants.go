// Package constants carries the fixed weekly checklist and tool inventory
// reference tables. Both are keyed by small integer ids and consumed
// read-only by the export renderer for labels and ordering.
package constants

type InspectionItem struct {
	Id    int
	Label string
}

var WeeklyInspectionItems = []InspectionItem{
	{Id: 1, Label: "الماسحات وأذرعتها"},
	{Id: 2, Label: "المرايا الجانبيه"},
	{Id: 3, Label: "مرأة السائق"},
	{Id: 4, Label: "فرش الدواسات"},
	{Id: 5, Label: "واقيات الشمس"},
	{Id: 6, Label: "مقاعد المركبة"},
	{Id: 7, Label: "المصابيح الخارجيه"},
	{Id: 8, Label: "البطاريات"},
	{Id: 9, Label: "الراديو والمسجل"},
	{Id: 10, Label: "عدة المركبة"},
	{Id: 11, Label: "مفتاح العجلات"},
	{Id: 12, Label: "طفاية"},
	{Id: 13, Label: "رافعه"},
	{Id: 14, Label: "أطار احتياطي"},
	{Id: 15, Label: "سلك توصيل (جطل)"},
	{Id: 16, Label: "مثلث مروري"},
	{Id: 17, Label: "الزجاج الامامي"},
}

type ToolItem struct {
	Id       int
	Name     string
	Quantity int // expected count
}

var ToolInventoryItems = []ToolItem{
	{Id: 1, Name: "نرمادة عدله هايدروليك", Quantity: 4},
	{Id: 2, Name: "نرمادة عدلة عادية", Quantity: 4},
	{Id: 3, Name: "نرمادة نصف عكفة عادية", Quantity: 4},
	{Id: 4, Name: "نرمادة نصف عكفة هايدروليك", Quantity: 4},
	{Id: 5, Name: "زوايا سرير كبيرة", Quantity: 5},
	{Id: 6, Name: "زوايا 6 فتحات صغيرة", Quantity: 5},
	{Id: 7, Name: "سكة هايدروليك قياس 30", Quantity: 2},
	{Id: 8, Name: "سكة هايدروليك قياس 40", Quantity: 2},
	{Id: 9, Name: "سكة هايدروليك قياس 35", Quantity: 2},
	{Id: 10, Name: "بطارية", Quantity: 1},
	{Id: 11, Name: "براغي كوشة", Quantity: 100},
	{Id: 12, Name: "براغي سلايد", Quantity: 100},
	{Id: 13, Name: "برغي دبدوب", Quantity: 50},
	{Id: 14, Name: "قفل + لبلوب", Quantity: 50},
	{Id: 15, Name: "معالجات جميع الالوان", Quantity: 1},
	{Id: 16, Name: "تيب مسلح", Quantity: 1},
	{Id: 17, Name: "حمالة رف", Quantity: 25},
	{Id: 18, Name: "كتر موس", Quantity: 2},
	{Id: 19, Name: "فيتة", Quantity: 1},
	{Id: 20, Name: "طلقات دريل", Quantity: 3},
	{Id: 21, Name: "مساطر خشب", Quantity: 10},
	{Id: 22, Name: "حساس انارة", Quantity: 5},
	{Id: 23, Name: "شاحنة انارة", Quantity: 5},
	{Id: 24, Name: "شريط انارة بكرة", Quantity: 1},
	{Id: 25, Name: "كاوية + صولدر", Quantity: 1},
	{Id: 26, Name: "حمالة بوري تعالكة", Quantity: 10},
	{Id: 27, Name: "بوري تعالكة", Quantity: 2},
	{Id: 28, Name: "ادبتر لبة", Quantity: 3},
	{Id: 29, Name: "دريل", Quantity: 3},
}
