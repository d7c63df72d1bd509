package recognizer

// ContractPrompt instructs the recognition model to extract the contract
// field set from one page image. The placeholder wording and the YYYY-MM-DD
// date format are part of the wire contract with the audit core.
const ContractPrompt = "你是合同审核专家，请从图像中精确提取以下信息。请严格遵守以下规则：\n" +
	"1. 若某项内容存在但字迹潦草、无法辨认，请填写「（签名模糊）」；\n" +
	"2. 若某项内容完全缺失（无签字/无盖章/无文字），请留空字符串 ''；\n" +
	"3. 日期格式统一为 YYYY-MM-DD；\n" +
	"4. 关联主体如有多个，用中文逗号分隔。\n\n" +
	"需提取的字段如下：\n" +
	"- contract_name: 合同名称\n" +
	"- contract_id: 合同编号\n" +
	"- party_a_name: 甲方全称\n" +
	"- party_b_name: 乙方全称\n" +
	"- effective_start: 合同生效起始日\n" +
	"- effective_end: 合同终止日\n" +
	"- seal_party_a: 甲方盖章全称（含章类型，如‘中海油（北京）销售有限公司 合同专用章’）\n" +
	"- seal_party_b: 乙方盖章全称\n" +
	"- sign_party_a: 甲方签字人姓名（若字迹模糊无法辨认，填「（签名模糊）」）\n" +
	"- sign_party_b: 乙方签字人姓名（若字迹模糊无法辨认，填「（签名模糊）」）\n" +
	"- settlement_method: 结算方式（如‘款到发货’、‘预付款’等）\n" +
	"- bank_account_name: 乙方收款账户名称\n" +
	"- bank_name: 开户行全称\n" +
	"- bank_account_number: 银行账号\n" +
	"- payment_terms: 付款条件（如‘收到发票后30个工作日’）\n" +
	"- goods_name: 货物/服务名称\n" +
	"- quantity: 数量及单位（如‘22.95吨’）\n" +
	"- total_amount_incl_tax: 总含税金额（数字，如‘114291’）\n" +
	"- related_entities: 合同关联主体列表（如‘中海油魏公村（北京）加油站有限公司’）\n\n" +
	"请严格按 JSON 格式输出上述全部字段，不要包含任何额外说明。"

// SealPrompt instructs the recognition model to judge per-page seal
// requirement and list every seal instance with its attributes.
const SealPrompt = "你是印章识别专家，请分析图像中的印章情况，并按以下规则判断：\n" +
	"1. requires_seal：若本页内容包含落款、签署栏或其他应当盖章的位置，填 true，否则填 false；\n" +
	"2. seals：列出本页发现的每一枚印章；若无任何印章，填空数组 []；\n" +
	"3. 若印章被裁剪/位于页面边缘导致不完整，is_complete 填 false；\n" +
	"4. 若印章颜色不是红色（如黑色、蓝色、灰色），is_red 填 false；\n" +
	"5. 印章尺寸：若明显小于常规公章（直径 < 3cm），is_normal_size 填 false；\n" +
	"6. seal_text 提取印章内文字（如‘中海油（北京）销售有限公司 合同专用章’），无法辨认则填‘（印章模糊）’。\n\n" +
	"请严格按以下 JSON 格式输出，不要任何额外文本：\n" +
	"{\n" +
	"  \"requires_seal\": false,\n" +
	"  \"seals\": [\n" +
	"    {\"is_red\": true, \"is_complete\": true, \"is_normal_size\": true, \"seal_text\": \"\"}\n" +
	"  ]\n" +
	"}"
