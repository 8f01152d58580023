package ui

import (
	"sort"
	"strings"

	"fyne.io/fyne/v2/lang"
)

// Language codes
const (
	LangSystem  = "system"
	LangEnglish = "en"
	LangRussian = "ru"
	LangPortug  = "pt"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyTabDownload       = "tab_download"
	KeyTabHistory        = "tab_history"
	KeyTabSettings       = "tab_settings"
	KeyDownload          = "download"
	KeyCancel            = "cancel"
	KeyOpen              = "open"
	KeyReveal            = "reveal"
	KeyCopyPath          = "copy_path"
	KeyPathCopied        = "path_copied"
	KeyRemove            = "remove"
	KeyRetry             = "retry"
	KeyConvert           = "convert"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyTheme             = "theme"
	KeyDownloadDirectory = "download_directory"
	KeyMaxParallel       = "max_parallel"
	KeyQuality           = "quality"
	KeyDefaultQuality    = "default_quality"
	KeyFilenameTemplate  = "filename_template"
	KeyAutoReveal        = "auto_reveal"
	KeySave              = "save"
	KeyBrowse            = "browse"
	KeyEnterURL          = "enter_url"
	KeyPreview           = "preview"
	KeyFetchingInfo      = "fetching_info"
	KeyPreviewFailed     = "preview_failed"
	KeyOptions           = "options"
	KeyPlaylistMode      = "playlist_mode"
	KeySubtitles         = "subtitles"
	KeyThumbnail         = "thumbnail"
	KeyQuantity          = "quantity"
	KeyRangeStart        = "range_start"
	KeyRangeEnd          = "range_end"
	KeyReady             = "ready"
	KeyActivityLog       = "activity_log"
	KeySettingsSaved     = "settings_saved"
	KeyDownloadStarted   = "download_started"
	KeyDownloadCompleted = "download_completed"
	KeyDownloadFailed    = "download_failed"
	KeyDownloadCancelled = "download_cancelled"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyStoppingDownload  = "stopping_download"
	KeyInvalidURL        = "invalid_url"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyAlreadyInQueue    = "already_in_queue"
	KeyError             = "error"
	KeyVideos            = "videos"
	KeyDuration          = "duration"
	KeyViews             = "views"
	KeyUploaded          = "uploaded"
	KeyUploader          = "uploader"
	KeyHistoryEmpty      = "history_empty"
	KeyClearHistory      = "clear_history"
	KeyConfirmClear      = "confirm_clear"
	KeyOpenFolder        = "open_folder"
	KeyRefresh           = "refresh"
	KeyYTDLPVersion      = "ytdlp_version"
	KeyUpdateYTDLP       = "update_ytdlp"
	KeyInstallYTDLP      = "install_ytdlp"
	KeyCheckAppUpdates   = "check_app_updates"
	KeyUpToDate          = "up_to_date"
	KeyUpdateAvailable   = "update_available"
	KeyUpdating          = "updating"
	KeyMissingDeps       = "missing_deps"
	KeyCheckAgain        = "check_again"
	KeyConvertTitle      = "convert_title"
	KeyConvertStarted    = "convert_started"
	KeyConvertFinished   = "convert_finished"
	KeyRemux             = "remux"
	KeyCompress          = "compress"
	KeyExtractAudio      = "extract_audio"
	KeyUnknown           = "unknown"
	KeyClose             = "close"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: LangEnglish,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" picks the OS language when translated.
func (l *Localization) SetLanguage(code string) {
	if code == LangSystem || code == "" {
		code = systemLanguage()
	}

	if _, exists := l.texts[code]; exists {
		l.currentLanguage = code
		return
	}
	l.currentLanguage = LangEnglish
}

func systemLanguage() string {
	locale := strings.ToLower(string(lang.SystemLocale()))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	return locale
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if text, found := l.texts[LangEnglish][key]; found {
		return text
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		LangEnglish: "English",
		LangRussian: "Русский",
		LangPortug:  "Português",
	}
}

// LanguageCodes returns the translated language codes sorted
func (l *Localization) LanguageCodes() []string {
	codes := make([]string, 0, len(l.texts))
	for code := range l.texts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts[LangEnglish] = map[string]string{
		KeyAppTitle:          "SHTxd Clip",
		KeyTabDownload:       "Download",
		KeyTabHistory:        "History",
		KeyTabSettings:       "Settings",
		KeyDownload:          "Download",
		KeyCancel:            "Cancel",
		KeyOpen:              "Open",
		KeyReveal:            "Show",
		KeyCopyPath:          "Copy path",
		KeyPathCopied:        "Path copied to clipboard",
		KeyRemove:            "Remove",
		KeyRetry:             "Retry",
		KeyConvert:           "Convert",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyTheme:             "Theme",
		KeyDownloadDirectory: "Download Directory",
		KeyMaxParallel:       "Max Parallel Downloads",
		KeyQuality:           "Quality",
		KeyDefaultQuality:    "Default Quality",
		KeyFilenameTemplate:  "Filename Template",
		KeyAutoReveal:        "Show file when download completes",
		KeySave:              "Save",
		KeyBrowse:            "Browse",
		KeyEnterURL:          "Enter YouTube URL (https://youtube.com/watch?v=...)",
		KeyPreview:           "Preview",
		KeyFetchingInfo:      "Fetching video information...",
		KeyPreviewFailed:     "Could not load preview",
		KeyOptions:           "Options",
		KeyPlaylistMode:      "Download playlist",
		KeySubtitles:         "Subtitles",
		KeyThumbnail:         "Thumbnail",
		KeyQuantity:          "Videos",
		KeyRangeStart:        "From",
		KeyRangeEnd:          "To",
		KeyReady:             "Ready",
		KeyActivityLog:       "Activity Log",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyDownloadStarted:   "Download started",
		KeyDownloadCompleted: "Download completed",
		KeyDownloadFailed:    "Download failed",
		KeyDownloadCancelled: "Download cancelled",
		KeyErrorOpeningFile:  "Error opening file",
		KeyStoppingDownload:  "Stopping download...",
		KeyInvalidURL:        "Invalid URL",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyAlreadyInQueue:    "Already in queue",
		KeyError:             "Error",
		KeyVideos:            "videos",
		KeyDuration:          "Duration",
		KeyViews:             "Views",
		KeyUploaded:          "Uploaded",
		KeyUploader:          "Channel",
		KeyHistoryEmpty:      "No downloads yet",
		KeyClearHistory:      "Clear History",
		KeyConfirmClear:      "Remove all history entries?",
		KeyOpenFolder:        "Open Folder",
		KeyRefresh:           "Refresh",
		KeyYTDLPVersion:      "yt-dlp version",
		KeyUpdateYTDLP:       "Update yt-dlp",
		KeyInstallYTDLP:      "Install yt-dlp",
		KeyCheckAppUpdates:   "Check for updates",
		KeyUpToDate:          "You are running the latest version",
		KeyUpdateAvailable:   "A new version is available",
		KeyUpdating:          "Updating...",
		KeyMissingDeps:       "Required tools are missing",
		KeyCheckAgain:        "Check again",
		KeyConvertTitle:      "Convert file",
		KeyConvertStarted:    "Conversion started",
		KeyConvertFinished:   "Conversion finished",
		KeyRemux:             "Change container (no re-encode)",
		KeyCompress:          "Compress (H.264)",
		KeyExtractAudio:      "Extract audio (MP3)",
		KeyUnknown:           "Unknown",
		KeyClose:             "Close",
	}

	l.texts[LangRussian] = map[string]string{
		KeyAppTitle:          "SHTxd Clip",
		KeyTabDownload:       "Загрузка",
		KeyTabHistory:        "История",
		KeyTabSettings:       "Настройки",
		KeyDownload:          "Скачать",
		KeyCancel:            "Отмена",
		KeyOpen:              "Открыть",
		KeyReveal:            "Показать",
		KeyCopyPath:          "Копировать путь",
		KeyPathCopied:        "Путь скопирован",
		KeyRemove:            "Удалить",
		KeyRetry:             "Повторить",
		KeyConvert:           "Конвертировать",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyTheme:             "Тема",
		KeyDownloadDirectory: "Папка загрузки",
		KeyMaxParallel:       "Макс. параллельных",
		KeyQuality:           "Качество",
		KeyDefaultQuality:    "Качество по умолчанию",
		KeyFilenameTemplate:  "Шаблон имени файла",
		KeyAutoReveal:        "Показывать файл после загрузки",
		KeySave:              "Сохранить",
		KeyBrowse:            "Обзор",
		KeyEnterURL:          "Введите URL YouTube (https://youtube.com/watch?v=...)",
		KeyPreview:           "Просмотр",
		KeyFetchingInfo:      "Получение информации о видео...",
		KeyPreviewFailed:     "Не удалось загрузить информацию",
		KeyOptions:           "Параметры",
		KeyPlaylistMode:      "Скачать плейлист",
		KeySubtitles:         "Субтитры",
		KeyThumbnail:         "Обложка",
		KeyQuantity:          "Видео",
		KeyRangeStart:        "С",
		KeyRangeEnd:          "По",
		KeyReady:             "Готово",
		KeyActivityLog:       "Журнал",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyDownloadStarted:   "Загрузка начата",
		KeyDownloadCompleted: "Загрузка завершена",
		KeyDownloadFailed:    "Ошибка загрузки",
		KeyDownloadCancelled: "Загрузка отменена",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyStoppingDownload:  "Остановка загрузки...",
		KeyInvalidURL:        "Неверный URL",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyAlreadyInQueue:    "Уже в очереди",
		KeyError:             "Ошибка",
		KeyVideos:            "видео",
		KeyDuration:          "Длительность",
		KeyViews:             "Просмотры",
		KeyUploaded:          "Загружено",
		KeyUploader:          "Канал",
		KeyHistoryEmpty:      "Загрузок пока нет",
		KeyClearHistory:      "Очистить историю",
		KeyConfirmClear:      "Удалить все записи истории?",
		KeyOpenFolder:        "Открыть папку",
		KeyRefresh:           "Обновить",
		KeyYTDLPVersion:      "Версия yt-dlp",
		KeyUpdateYTDLP:       "Обновить yt-dlp",
		KeyInstallYTDLP:      "Установить yt-dlp",
		KeyCheckAppUpdates:   "Проверить обновления",
		KeyUpToDate:          "У вас последняя версия",
		KeyUpdateAvailable:   "Доступна новая версия",
		KeyUpdating:          "Обновление...",
		KeyMissingDeps:       "Не найдены необходимые программы",
		KeyCheckAgain:        "Проверить снова",
		KeyConvertTitle:      "Конвертация файла",
		KeyConvertStarted:    "Конвертация начата",
		KeyConvertFinished:   "Конвертация завершена",
		KeyRemux:             "Сменить контейнер (без перекодирования)",
		KeyCompress:          "Сжать (H.264)",
		KeyExtractAudio:      "Извлечь аудио (MP3)",
		KeyUnknown:           "Неизвестно",
		KeyClose:             "Закрыть",
	}

	l.texts[LangPortug] = map[string]string{
		KeyAppTitle:          "SHTxd Clip",
		KeyTabDownload:       "Baixar",
		KeyTabHistory:        "Histórico",
		KeyTabSettings:       "Configurações",
		KeyDownload:          "Baixar",
		KeyCancel:            "Cancelar",
		KeyOpen:              "Abrir",
		KeyReveal:            "Mostrar",
		KeyCopyPath:          "Copiar caminho",
		KeyPathCopied:        "Caminho copiado",
		KeyRemove:            "Remover",
		KeyRetry:             "Tentar novamente",
		KeyConvert:           "Converter",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyTheme:             "Tema",
		KeyDownloadDirectory: "Diretório de Download",
		KeyMaxParallel:       "Max Downloads Paralelos",
		KeyQuality:           "Qualidade",
		KeyDefaultQuality:    "Qualidade Padrão",
		KeyFilenameTemplate:  "Modelo de Nome de Arquivo",
		KeyAutoReveal:        "Mostrar arquivo ao concluir",
		KeySave:              "Salvar",
		KeyBrowse:            "Navegar",
		KeyEnterURL:          "Digite URL do YouTube (https://youtube.com/watch?v=...)",
		KeyPreview:           "Visualizar",
		KeyFetchingInfo:      "Obtendo informações do vídeo...",
		KeyPreviewFailed:     "Não foi possível carregar a visualização",
		KeyOptions:           "Opções",
		KeyPlaylistMode:      "Baixar playlist",
		KeySubtitles:         "Legendas",
		KeyThumbnail:         "Miniatura",
		KeyQuantity:          "Vídeos",
		KeyRangeStart:        "De",
		KeyRangeEnd:          "Até",
		KeyReady:             "Pronto",
		KeyActivityLog:       "Registro de Atividades",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyDownloadStarted:   "Download iniciado",
		KeyDownloadCompleted: "Download concluído",
		KeyDownloadFailed:    "Falha no download",
		KeyDownloadCancelled: "Download cancelado",
		KeyErrorOpeningFile:  "Erro ao abrir arquivo",
		KeyStoppingDownload:  "Parando download...",
		KeyInvalidURL:        "URL inválida",
		KeyPleaseEnterURL:    "Por favor, digite uma URL",
		KeyAlreadyInQueue:    "Já na fila",
		KeyError:             "Erro",
		KeyVideos:            "vídeos",
		KeyDuration:          "Duração",
		KeyViews:             "Visualizações",
		KeyUploaded:          "Publicado",
		KeyUploader:          "Canal",
		KeyHistoryEmpty:      "Nenhum download ainda",
		KeyClearHistory:      "Limpar Histórico",
		KeyConfirmClear:      "Remover todas as entradas do histórico?",
		KeyOpenFolder:        "Abrir Pasta",
		KeyRefresh:           "Atualizar",
		KeyYTDLPVersion:      "Versão do yt-dlp",
		KeyUpdateYTDLP:       "Atualizar yt-dlp",
		KeyInstallYTDLP:      "Instalar yt-dlp",
		KeyCheckAppUpdates:   "Verificar atualizações",
		KeyUpToDate:          "Você está usando a versão mais recente",
		KeyUpdateAvailable:   "Uma nova versão está disponível",
		KeyUpdating:          "Atualizando...",
		KeyMissingDeps:       "Ferramentas necessárias não encontradas",
		KeyCheckAgain:        "Verificar novamente",
		KeyConvertTitle:      "Converter arquivo",
		KeyConvertStarted:    "Conversão iniciada",
		KeyConvertFinished:   "Conversão concluída",
		KeyRemux:             "Trocar contêiner (sem recodificar)",
		KeyCompress:          "Comprimir (H.264)",
		KeyExtractAudio:      "Extrair áudio (MP3)",
		KeyUnknown:           "Desconhecido",
		KeyClose:             "Fechar",
	}
}
