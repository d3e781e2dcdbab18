/**
 * @description
 * This file holds every user-facing reply the bot sends. The bot serves an
 * Arabic-speaking community, so all replies are Arabic plain text; keeping
 * them in one place makes the copy reviewable and lets tests assert on the
 * exact literals.
 */

package bot

const (
	msgUsageAddBalance    = "❌ الاستخدام الصحيح: !addbalance @المستخدم المبلغ"
	msgUsageRemoveBalance = "❌ الاستخدام الصحيح: !removebalance @المستخدم المبلغ"
	msgUsageSetNum        = "❌ الاستخدام الصحيح: !setnum ID المستخدم الرقم"
	msgUsageSetSendNum    = "❌ الاستخدام الصحيح: !setsendnum ID المستخدم الرقم"
	msgUsageSetNsp        = "❌ الاستخدام الصحيح: !setnsp ID المستخدم المبلغ"
	msgUsageClearUserData = "❌ الاستخدام الصحيح: !clearuserdata ID المستخدم"
	msgUsageInfo          = "❌ الاستخدام الصحيح: !info ID المستخدم"

	msgInvalidUserAmount   = "❌ يرجى إدخال المستخدم والمبلغ بشكل صحيح."
	msgInvalidReceiveNum   = "❌ يجب أن يكون رقم الاستلام أرقامًا فقط."
	msgInvalidSendNum      = "❌ يجب أن يكون رقم الإرسال أرقامًا فقط."
	msgInvalidTaxAmount    = "❌ يجب أن يكون مبلغ الضرائب رقمًا صالحًا."
	msgInsufficientBalance = "❌ الرصيد غير كافٍ."
	msgCommandFailed       = "❌ حدث خطأ أثناء تنفيذ الأمر."
	msgNotAuthorized       = "❌ ليس لديك صلاحية لاستخدام هذا الأمر."

	fmtBalanceAdded    = "✅ تم إضافة **%d جنيه** إلى %s."
	fmtBalanceRemoved  = "✅ تم خصم **%d جنيه** من %s."
	fmtCurrentBalance  = "💰 الرصيد الحالي لـ %s: **%d جنيه**"
	fmtReceiveNumSet   = "✅ تم تعيين **رقم الاستلام** لـ <@%s> إلى: %s"
	fmtSendNumSet      = "✅ تم تعيين **رقم الإرسال** لـ <@%s> إلى: %s"
	fmtTaxAmountSet    = "✅ تم تعيين **مبلغ الضرائب** لـ <@%s> إلى: %s"
	fmtUserDataCleared = "✅ تم **مسح جميع بيانات** <@%s> من قاعدة البيانات."
	fmtAdminCredit     = "✅ تم إضافة **%d جنيه مصري** إلى %s. الرصيد الحالي: **%d جنيه**"

	fmtInfo = "**🔹 قائمة المعلومات الخاصة بـ <@%s>:**\n" +
		"`📥` ➜ رقم الاستلام: **%s**\n" +
		"`📤` ➜ رقم الإرسال: **%s**\n" +
		"`💰` ➜ مبلغ الضرائب: **%s جنيه**\n" +
		"`💳` ➜ الرصيد الحالي: **%d جنيه**"

	msgHelp = "**🔹 قائمة الأوامر:**\n" +
		"`!addbalance @المستخدم المبلغ` ➜ إضافة رصيد.\n" +
		"`!removebalance @المستخدم المبلغ` ➜ خصم رصيد.\n" +
		"`!balance [@المستخدم]` ➜ عرض الرصيد الحالي.\n" +
		"`!setnum ID الرقم` ➜ تعيين رقم الاستلام.\n" +
		"`!setsendnum ID الرقم` ➜ تعيين رقم الإرسال.\n" +
		"`!setnsp ID المبلغ` ➜ تعيين مبلغ الضرائب.\n" +
		"`!clearuserdata ID` ➜ مسح جميع بيانات المستخدم.\n" +
		"`!info ID` ➜ عرض معلومات المستخدم."
)
