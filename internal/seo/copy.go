package seo

import (
	"github.com/JakeFAU/dealsite-ssr/internal/catalog"
	"github.com/JakeFAU/dealsite-ssr/internal/route"
)

type pageCopy struct {
	Title string
	// Description may carry one %s verb for listing counts.
	Description string
}

type dealPhrases struct {
	at   string
	save string
}

var pageCopyEN = map[route.Name]pageCopy{
	route.Home:        {"Coupons, Promo Codes and Deals", "Save on every order with verified coupons, promo codes and daily deals from the stores you love."},
	route.Deals:       {"Latest Deals and Offers", "Browse %s verified deals and discount offers, updated every day."},
	route.Stores:      {"All Stores", "Find coupons and promo codes from %s stores in one place."},
	route.Products:    {"Products on Sale", "Compare prices on %s discounted products from top stores."},
	route.Guides:      {"Shopping Guides", "Read %s shopping guides and tips to get the best price on every purchase."},
	route.Categories:  {"Categories", "Explore deals by category: fashion, electronics, travel, groceries and more."},
	route.About:       {"About Us", "We collect and verify coupons and deals so you never pay full price."},
	route.Contact:     {"Contact Us", "Questions or a store partnership? Get in touch with our team."},
	route.Privacy:     {"Privacy Policy", "How we collect, use and protect your personal information."},
	route.Terms:       {"Terms of Use", "The terms that govern your use of our coupons and deals service."},
	route.Newsletter:  {"Newsletter", "Subscribe to get the best coupons and deals delivered to your inbox."},
	route.Login:       {"Sign In", "Sign in to save your favorite stores and deals."},
	route.Register:    {"Create an Account", "Create a free account to follow stores and get deal alerts."},
	route.DealDetail:  {"Deal", "Get this verified deal and save on your next order."},
	route.StoreDetail: {"Store Coupons and Promo Codes", "Verified coupons, promo codes and deals for this store, updated daily."},
	route.NotFound:    {"Page Not Found", "The page you are looking for could not be found. Browse the latest coupons and deals instead."},
}

var pageCopyAR = map[route.Name]pageCopy{
	route.Home:        {"كوبونات وأكواد خصم وعروض", "وفّر في كل طلب مع كوبونات وأكواد خصم موثّقة وعروض يومية من متاجرك المفضلة."},
	route.Deals:       {"أحدث العروض والخصومات", "تصفّح %s عرضاً وخصماً موثّقاً يتم تحديثها يومياً."},
	route.Stores:      {"جميع المتاجر", "اعثر على كوبونات وأكواد خصم من %s متجر في مكان واحد."},
	route.Products:    {"منتجات مخفّضة", "قارن أسعار %s منتجاً مخفّضاً من أفضل المتاجر."},
	route.Guides:      {"أدلة التسوق", "اقرأ %s دليلاً ونصيحة للحصول على أفضل سعر في كل عملية شراء."},
	route.Categories:  {"الفئات", "استكشف العروض حسب الفئة: أزياء، إلكترونيات، سفر، بقالة والمزيد."},
	route.About:       {"من نحن", "نجمع الكوبونات والعروض ونتحقق منها حتى لا تدفع السعر الكامل أبداً."},
	route.Contact:     {"اتصل بنا", "لديك سؤال أو ترغب بشراكة متجر؟ تواصل مع فريقنا."},
	route.Privacy:     {"سياسة الخصوصية", "كيف نجمع معلوماتك الشخصية ونستخدمها ونحميها."},
	route.Terms:       {"شروط الاستخدام", "الشروط التي تحكم استخدامك لخدمة الكوبونات والعروض."},
	route.Newsletter:  {"النشرة البريدية", "اشترك لتصلك أفضل الكوبونات والعروض إلى بريدك."},
	route.Login:       {"تسجيل الدخول", "سجّل الدخول لحفظ متاجرك وعروضك المفضلة."},
	route.Register:    {"إنشاء حساب", "أنشئ حساباً مجانياً لمتابعة المتاجر وتلقي تنبيهات العروض."},
	route.DealDetail:  {"عرض", "احصل على هذا العرض الموثّق ووفّر في طلبك القادم."},
	route.StoreDetail: {"كوبونات وأكواد خصم المتجر", "كوبونات وأكواد خصم وعروض موثّقة لهذا المتجر يتم تحديثها يومياً."},
	route.NotFound:    {"الصفحة غير موجودة", "لم نتمكن من العثور على الصفحة المطلوبة. تصفّح أحدث الكوبونات والعروض بدلاً من ذلك."},
}

var (
	phrasesEN = dealPhrases{at: "%s at %s", save: "Save %d%%."}
	phrasesAR = dealPhrases{at: "%s من %s", save: "وفّر %d%%."}
)

func copyFor(name route.Name, lang catalog.Lang) pageCopy {
	table := pageCopyAR
	if lang == catalog.LangEnglish {
		table = pageCopyEN
	}
	if c, ok := table[name]; ok {
		return c
	}
	return table[route.NotFound]
}

func phrasesFor(lang catalog.Lang) dealPhrases {
	if lang == catalog.LangEnglish {
		return phrasesEN
	}
	return phrasesAR
}

func keywords(lang catalog.Lang) string {
	if lang == catalog.LangEnglish {
		return "coupons, promo codes, discount codes, deals, offers"
	}
	return "كوبونات, أكواد خصم, كود خصم, عروض, تخفيضات"
}
