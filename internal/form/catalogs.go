package form

import "github.com/EdnondDantes/golosStroyki/internal/entity"

const contactPrompt = "Оставь номер телефона для связи:"
const contactHint = "Можешь отправить свой контакт кнопкой ниже или написать вручную 👇"

var Contractor = register(&Catalog{
	Variant:      entity.FormVariantContractor,
	Title:        "Анкета специалиста",
	SummaryTitle: "Твоя анкета",
	Steps: []Step{
		{
			Field:  "work_format",
			Label:  "Формат работы",
			Title:  "Формат работы",
			Prompt: "Вы работаете как:",
			Hint:   "Выбери из кнопок ниже или напиши свой вариант",
			Input:  InputChoice,
			Choices: []Choice{
				{Key: "wf_specialist", Label: "Специалист"},
				{Key: "wf_brigade", Label: "Бригада"},
				{Key: "wf_company", Label: "Компания"},
			},
			Validate: Length(2, 100, "❌ Укажите формат работы.", TooLong(100)),
		},
		{
			Field:  "city",
			Label:  "Город",
			Title:  "Город/регион",
			Prompt: "В каком городе работаешь?",
			Hint:   "Выбери из кнопок или напиши свой город",
			Input:  InputChoice,
			Choices: []Choice{
				{Key: "city_moscow", Label: "Москва"},
				{Key: "city_spb", Label: "Санкт-Петербург"},
				{Key: "city_any", Label: "Готов работать в любом городе"},
			},
			Validate: Length(2, 50,
				"❌ Название города слишком короткое. Минимум 2 символа.",
				"❌ Название города слишком длинное. Максимум 50 символов."),
		},
		{
			Field:  "specialization",
			Label:  "Специализация",
			Title:  "Специализация",
			Prompt: "Кратко напиши чем занимаешься, какие услуги оказываешь?",
			Hint:   "Например: \"Отделка квартир, малярка, плитка, электрика\"",
			Input:  InputText,
			Validate: Length(5, 300,
				"❌ Специализация слишком короткая. Опишите подробнее (минимум 5 символов).",
				"❌ Специализация слишком длинная. Максимум 300 символов."),
			Enrich: entity.EnrichHintSpecialization,
		},
		{
			Field:         "experience",
			Label:         "Опыт",
			Title:         "Опыт работы в строительстве",
			Prompt:        "Сколько лет опыта?",
			Hint:          "Выбери из кнопок или напиши свой вариант",
			Input:         InputChoice,
			ChoiceColumns: 2,
			Choices: []Choice{
				{Key: "exp_less1", Label: "Менее 1 года"},
				{Key: "exp_1_3", Label: "1-3 года"},
				{Key: "exp_3_5", Label: "3-5 лет"},
				{Key: "exp_5_10", Label: "5-10 лет"},
				{Key: "exp_more10", Label: "Более 10 лет"},
			},
			Validate: Length(1, 50, "❌ Укажите опыт работы.", TooLong(50)),
		},
		{
			Field:  "objects_worked",
			Label:  "Объекты",
			Title:  "На каких объектах работали",
			Prompt: "Опиши какие объекты выполнял:",
			Hint:   "Например: \"Квартиры, офисы, коттеджи. Работал на объектах от 50 до 300 кв.м.\"",
			Input:  InputText,
			Validate: Length(10, 500,
				"❌ Опишите подробнее объекты, на которых работали (минимум 10 символов).",
				"❌ Описание слишком длинное. Максимум 500 символов."),
			Enrich: entity.EnrichHintDescription,
		},
		{
			Field:  "work_volume",
			Label:  "Объём работ",
			Title:  "Объём работ",
			Prompt: "Какой объём работ можешь выполнить? Сколько человек в команде?",
			Hint:   "Например: \"Бригада 5 человек, можем выполнить квартиру под ключ за месяц\"",
			Input:  InputText,
			Validate: Length(5, 300,
				"❌ Укажите объём работ, который можете выполнить (минимум 5 символов).",
				"❌ Описание слишком длинное. Максимум 300 символов."),
		},
		{
			Field:         "documents_form",
			Label:         "Документы",
			Title:         "Документы / Форма работы",
			Prompt:        "Как работаешь?",
			Hint:          "Выбери из кнопок или напиши свой вариант",
			Input:         InputChoice,
			ChoiceColumns: 2,
			Choices: []Choice{
				{Key: "doc_ip", Label: "ИП"},
				{Key: "doc_samozanyaty", Label: "Самозанятый"},
				{Key: "doc_ooo", Label: "ООО"},
				{Key: "doc_contract", Label: "По договору"},
				{Key: "doc_none", Label: "Без оформления"},
			},
			Validate: Length(2, 100, "❌ Укажите форму работы/документы.", TooLong(100)),
		},
		{
			Field:  "payment_conditions",
			Label:  "Условия оплаты",
			Title:  "Условия оплаты",
			Prompt: "Напиши условия оплаты и стоимость:",
			Hint:   "Например: \"от 2000 ₽/м², оплата 50% аванс, 50% после завершения\"",
			Input:  InputText,
			Validate: Length(5, 200,
				"❌ Укажите условия оплаты (минимум 5 символов).",
				"❌ Описание слишком длинное. Максимум 200 символов."),
		},
		{
			Field:    "contact",
			Label:    "Контакт",
			Title:    "Контакты",
			Prompt:   "Оставь номер телефона для клиентов:",
			Hint:     contactHint,
			Input:    InputContact,
			Validate: Phone(),
			Private:  true,
		},
		{
			Field:     "portfolio_link",
			Label:     "Портфолио",
			Title:     "Портфолио",
			Prompt:    "Есть ссылка на портфолио или канал с работами?",
			Hint:      "Пришли ссылку, напиши \"нет\" или нажми \"Пропустить\"",
			Input:     InputText,
			Validate:  LinkOrNone(200),
			Skippable: true,
		},
		{
			Field:     "photo_file_id",
			Label:     "Фото",
			Title:     "Фотография профиля",
			Prompt:    "Добавь свою фотографию, чтобы привлечь больше работодателей!\n\nАнкеты с фото получают в 3 раза больше откликов.",
			Hint:      "Отправь фото или нажми \"Пропустить\" 👇",
			Input:     InputPhoto,
			Skippable: true,
		},
	},
})

var Order = register(&Catalog{
	Variant:      entity.FormVariantOrder,
	Title:        "Заявка на объект",
	SummaryTitle: "Твоя заявка",
	Steps: []Step{
		{
			Field:       "request_type",
			Label:       "Кого ищешь",
			Title:       "Кого ищешь?",
			Hint:        "Выбери из кнопок ниже",
			Input:       InputChoice,
			ChoicesOnly: true,
			Choices: []Choice{
				{Key: "ord_req_brigade", Label: "Бригаду / подрядчика"},
				{Key: "ord_req_workers", Label: "Рабочих по сменам"},
				{Key: "ord_req_engineers", Label: "Инженерный состав"},
			},
		},
		{
			Field: "city_location",
			Label: "Город",
			Title: "Город и локация объекта",
			Hint:  "Выбери город из кнопок или напиши свой вариант",
			Input: InputChoice,
			Choices: []Choice{
				{Key: "ord_city_moscow", Label: "Москва"},
				{Key: "ord_city_spb", Label: "Санкт-Петербург"},
			},
			Validate: Length(3, 200, "❌ Укажите город и локацию объекта.", TooLong(200)),
		},
		{
			Field: "object_type",
			Label: "Тип объекта",
			Title: "Тип объекта",
			Hint:  "Выбери тип из кнопок или напиши свой вариант",
			Input: InputChoice,
			Choices: []Choice{
				{Key: "ord_obj_apartment", Label: "Квартира"},
				{Key: "ord_obj_house", Label: "Дом"},
				{Key: "ord_obj_residential", Label: "ЖК"},
				{Key: "ord_obj_commercial", Label: "Коммерция"},
				{Key: "ord_obj_industrial", Label: "Промышленный"},
				{Key: "ord_obj_roads", Label: "Дороги"},
			},
			Validate: Length(3, 200, "❌ Укажите тип объекта.", TooLong(200)),
		},
		{
			Field: "work_type",
			Label: "Работы",
			Title: "Какие работы нужны?",
			Hint:  "Опиши какие работы требуются на объекте",
			Input: InputText,
			Validate: Length(5, 300,
				"❌ Опишите какие работы нужны (минимум 5 символов).",
				"❌ Описание слишком длинное. Максимум 300 символов."),
			Enrich: entity.EnrichHintDescription,
		},
		{
			Field: "volume_timeline",
			Label: "Объём и сроки",
			Title: "Объём и сроки",
			Hint:  "Укажи объём работ и желаемые сроки выполнения",
			Input: InputText,
			Validate: Length(10, 400,
				"❌ Укажите объём и сроки (минимум 10 символов).",
				"❌ Описание слишком длинное. Максимум 400 символов."),
		},
		{
			Field: "executor_requirements",
			Label: "Требования",
			Title: "Требования к исполнителю",
			Hint:  "Опиши требования к исполнителю (опыт, квалификация и т.д.)",
			Input: InputText,
			Validate: Length(5, 300,
				"❌ Укажите требования к исполнителю (минимум 5 символов).",
				"❌ Описание слишком длинное. Максимум 300 символов."),
		},
		{
			Field: "payment_conditions",
			Label: "Оплата",
			Title: "Условия оплаты",
			Hint:  "Укажи условия оплаты для исполнителя",
			Input: InputText,
			Validate: Length(5, 200,
				"❌ Укажите условия оплаты (минимум 5 символов).",
				"❌ Описание слишком длинное. Максимум 200 символов."),
		},
		{
			Field: "cooperation_format",
			Label: "Формат",
			Title: "Формат сотрудничества",
			Hint:  "Выбери формат из кнопок или напиши свой вариант",
			Input: InputChoice,
			Choices: []Choice{
				{Key: "ord_coop_general", Label: "Генподряд"},
				{Key: "ord_coop_sub", Label: "Субподряд"},
				{Key: "ord_coop_shifts", Label: "По сменам"},
				{Key: "ord_coop_onetime", Label: "Разовый проект"},
				{Key: "ord_coop_longterm", Label: "Долгосрочное сотрудничество"},
			},
			Validate: Length(3, 200, "❌ Укажите формат сотрудничества.", TooLong(200)),
		},
		{
			Field:    "contact",
			Label:    "Контакт",
			Title:    "Контактный номер телефона",
			Prompt:   contactPrompt,
			Hint:     contactHint,
			Input:    InputContact,
			Validate: Phone(),
			Private:  true,
		},
	},
})

var Supplier = register(&Catalog{
	Variant:      entity.FormVariantSupplier,
	Title:        "Анкета поставщика",
	SummaryTitle: "Твоя анкета поставщика",
	Steps: []Step{
		{
			Field: "supplier_type",
			Label: "Формат",
			Title: "Кто вы по формату?",
			Hint:  "Выбери из кнопок ниже",
			Input: InputChoice,
			Choices: []Choice{
				{Key: "sup_type_manufacturer", Label: "Производитель"},
				{Key: "sup_type_supplier", Label: "Поставщик"},
				{Key: "sup_type_rent", Label: "Аренда техники / механизмов"},
			},
			Validate: Length(2, 100, "❌ Укажите формат работы.", TooLong(100)),
		},
		{
			Field: "products_services",
			Label: "Товары/услуги",
			Title: "Что поставляете/сдаёте в аренду?",
			Hint:  "Опиши товары, материалы или технику",
			Input: InputText,
			Validate: Length(10, 400,
				"❌ Опишите что вы поставляете/сдаёте в аренду (минимум 10 символов).",
				"❌ Описание слишком длинное. Максимум 400 символов."),
			Enrich: entity.EnrichHintDescription,
		},
		{
			Field: "geography",
			Label: "География",
			Title: "География работы",
			Hint:  "Выбери город из кнопок или напиши свой вариант",
			Input: InputChoice,
			Choices: []Choice{
				{Key: "sup_city_moscow", Label: "Москва"},
				{Key: "sup_city_spb", Label: "Санкт-Петербург"},
			},
			Validate: Length(3, 300, "❌ Укажите географию работы.", "❌ Описание слишком длинное. Максимум 300 символов."),
		},
		{
			Field: "target_audience",
			Label: "Клиенты",
			Title: "С кем работаете?",
			Hint:  "Выбери целевую аудиторию из кнопок или напиши свой вариант",
			Input: InputChoice,
			Choices: []Choice{
				{Key: "sup_aud_private", Label: "Частники"},
				{Key: "sup_aud_contractors", Label: "Подрядчики"},
				{Key: "sup_aud_developers", Label: "Застройщики"},
				{Key: "sup_aud_all", Label: "Не важно (все)"},
			},
			Validate: Length(2, 100, "❌ Укажите с кем работаете.", TooLong(100)),
		},
		{
			Field: "min_order_conditions",
			Label: "Условия",
			Title: "Минимальный заказ и условия",
			Hint:  "Укажи минимальный заказ, условия поставки/аренды",
			Input: InputText,
			Validate: Length(5, 300,
				"❌ Укажите минимальный заказ и условия (минимум 5 символов).",
				"❌ Описание слишком длинное. Максимум 300 символов."),
		},
		{
			Field:    "contact",
			Label:    "Контакт",
			Title:    "Контактный номер телефона",
			Prompt:   contactPrompt,
			Hint:     contactHint,
			Input:    InputContact,
			Validate: Phone(),
			Private:  true,
		},
		{
			Field: "company_info",
			Label: "О компании",
			Title: "О компании",
			Hint:  "Название компании, имя контактного лица, ссылка на сайт",
			Input: InputText,
			Validate: Length(3, 400,
				"❌ Укажите информацию о компании.",
				"❌ Описание слишком длинное. Максимум 400 символов."),
		},
	},
})
