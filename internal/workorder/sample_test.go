package workorder

import "strings"

// samplePages mimics the text go-fitz returns for a two-page work order
var samplePages = []string{
	strings.Join([]string{
		"OFICINA MECÂNICA EXEMPLO LTDA",
		"Ordem de Serviço Nº 4100408",
		"Emissão:",
		"12/03/2024",
		"Cliente:",
		"C0042",
		"TRANSPORTES SILVA  LTDA - contato@silvatransportes.com.br",
		"E-mail: financeiro@oficina.com.br",
		"12.345.678/0001-90",
		"123456789012",
		"Rua das Flores, 100 - Centro - Campinas/SP",
		"(19) 3232-1000 / (19) 99876-5432",
		"Frota:",
		"F-17",
		"Placa:",
		"Modelo:",
		"ABC1D23",
		"KM:",
		"(19) 3232-1000",
		"152.340",
		"Observações Geral:",
		"Cliente solicitou revisão completa",
	}, "\n"),
	strings.Join([]string{
		"Qtd",
		"Unitário",
		"Total",
		"Descrição",
		"NCM",
		"Referência",
		"2,00",
		"1.500,00",
		"3.000,00",
		"Filtro de óleo",
		"8421.23.00",
		"12.34.56",
		"789456",
		"1,00",
		"250,00",
		"250,00",
		"Mão de obra",
		"SERVIÇO",
		"3,00",
		"45,50",
		"136,50",
		"Pastilha de freio",
		"8708.30.90",
		"98.76",
		"123",
		"Total Bruto:",
		"3.136,50",
		"Total Desconto:",
		"Desconto aplicado",
		"136,50",
		"Total Líquido:",
		"3.000,00",
	}, "\n"),
}

func sampleDocument() *Document {
	return NewDocument(samplePages)
}
