package bot

// Every user-facing string lives here so the handlers stay readable and
// the tone stays consistent.
const (
	replyEmpty = "Pesannya kosong. Ketik `bantuan` buat lihat cara pakenya."

	replyUnparseable = "Pesan lo nggak kebaca. Ketik `bantuan` buat lihat cara pakenya."

	replyBadAmountFormat = "⚠️ Format salah. Bagian depan harus angka (contoh: `25000#Gojek#catatan`)."

	replyAskForNote = "Gambarnya udah kebaca, tapi catatannya apa nih? Balas pesan ini dengan catatannya ya."

	replyUnreadable = "Waduh, gw coba baca pake semua cara tapi infonya tetep nggak jelas. 😵‍💫 Coba foto ulang struknya lebih lurus & terang ya."

	replyInternalError = "Sorry, ada error internal pas lagi proses gambarnya. 😵"

	replyLedgerDown = "Datanya berhasil dibaca, tapi gagal nyatet ke Google Sheets. Kayaknya ada masalah koneksi. 😥"

	replyHelp = "Yo! 👋 Mau nyatet pengeluaran? Gini caranya:\n\n" +
		"1️⃣ *Kirim Gambar + Caption*\n" +
		"   Foto struk/bukti transfer + caption catatan.\n" +
		"   Contoh: _(kirim foto struk Indomaret)_ lalu caption: `Belanja bulanan`\n\n" +
		"2️⃣ *Kirim Teks Langsung*\n" +
		"   Format: `jumlah#penerima#catatan`\n" +
		"   Contoh: `25000#Gojek#transport ke kantor`\n\n" +
		"Tinggal pilih cara paling pas buat lo. Sat-set kan? 😉"
)

var helpKeywords = map[string]bool{
	"help":    true,
	"tolong":  true,
	"keyword": true,
	"halo":    true,
	"bantuan": true,
	"info":    true,
}
