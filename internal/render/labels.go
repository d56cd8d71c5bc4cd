package render

import "github.com/JakeFAU/dealsite-ssr/internal/catalog"

var labelsEN = map[string]string{
	"home":           "Home",
	"deals":          "Deals",
	"stores":         "Stores",
	"products":       "Products",
	"guides":         "Guides",
	"categories":     "Categories",
	"about":          "About Us",
	"contact":        "Contact Us",
	"privacy":        "Privacy Policy",
	"terms":          "Terms of Use",
	"newsletter":     "Newsletter",
	"login":          "Sign In",
	"register":       "Create Account",
	"notfound":       "Page Not Found",
	"featured":       "Featured Deals",
	"top_stores":     "Top Stores",
	"related":        "Related Deals",
	"store_deals":    "Deals from this store",
	"coming_soon":    "Coming soon",
	"get_deal":       "Get Deal",
	"code":           "Code",
	"verified":       "Verified",
	"expires":        "Expires",
	"read_minutes":   "min read",
	"deal_missing":   "This deal is no longer available.",
	"store_missing":  "This store could not be found.",
	"visit_store":    "Visit store",
	"subscribe":      "Subscribe",
	"email":          "Email",
	"password":       "Password",
	"back_home":      "Back to home",
	"newsletter_cta": "Get the best deals in your inbox every week.",
}

var labelsAR = map[string]string{
	"home":           "الرئيسية",
	"deals":          "العروض",
	"stores":         "المتاجر",
	"products":       "المنتجات",
	"guides":         "أدلة التسوق",
	"categories":     "الفئات",
	"about":          "من نحن",
	"contact":        "اتصل بنا",
	"privacy":        "سياسة الخصوصية",
	"terms":          "شروط الاستخدام",
	"newsletter":     "النشرة البريدية",
	"login":          "تسجيل الدخول",
	"register":       "إنشاء حساب",
	"notfound":       "الصفحة غير موجودة",
	"featured":       "عروض مميزة",
	"top_stores":     "أفضل المتاجر",
	"related":        "عروض ذات صلة",
	"store_deals":    "عروض هذا المتجر",
	"coming_soon":    "قريباً",
	"get_deal":       "احصل على العرض",
	"code":           "الكود",
	"verified":       "موثّق",
	"expires":        "ينتهي",
	"read_minutes":   "دقائق قراءة",
	"deal_missing":   "هذا العرض لم يعد متاحاً.",
	"store_missing":  "لم نتمكن من العثور على هذا المتجر.",
	"visit_store":    "زيارة المتجر",
	"subscribe":      "اشترك",
	"email":          "البريد الإلكتروني",
	"password":       "كلمة المرور",
	"back_home":      "العودة للرئيسية",
	"newsletter_cta": "احصل على أفضل العروض في بريدك كل أسبوع.",
}

func label(lang catalog.Lang, key string) string {
	table := labelsAR
	if lang == catalog.LangEnglish {
		table = labelsEN
	}
	if v, ok := table[key]; ok {
		return v
	}
	return key
}
